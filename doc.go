// Package pdfdocx turns PDF pages and HTML reports into Word documents.
// It offers four independent pipelines under a single import:
//
//   - PDF page → PNG rasterization via MuPDF
//   - HTML → Word conversion mapping markup to native Word elements
//   - report assembly from titles, text boxes and extracted page images
//   - HTML → per-section screenshots via headless Chrome, laid out in Word
//
// # Page extraction
//
// A [PageExtractor] writes one PNG per requested page. Each page is
// independent; failures are reported and the run continues:
//
//	ex, err := pdfdocx.NewPageExtractor("images", pdfdocx.WithStatus(os.Stdout))
//	ok := ex.ExtractPage("deck.pdf", 3, "strategy") // images/strategy.png
//
// Use [Inspect] to read page counts and sizes before extracting.
//
// # HTML to Word
//
//	res, err := pdfdocx.ConvertHTMLFile("report.html", nil)
//	err = res.WriteToFile("report.docx", 0o644)
//
// # Report assembly
//
// A [Composer] appends headings, bullet boxes and centered images. Missing
// images become placeholder paragraphs:
//
//	c := pdfdocx.NewComposer(pdfdocx.ComposerConfig{BaseDir: "."})
//	c.AddTitle("Fund comparison")
//	c.AddTextBox("Strategy", []string{"Long-Short", "Absolute return"})
//	c.AddImage("images/strategy.png", 6.5)
//	res, err := c.Result()
//
// A [Plan] describes every pipeline in YAML; [DefaultPlan] returns the
// built-in plan.
//
// # Screenshots
//
// A [Capturer] reuses one browser process across captures. Every element
// matching the selector (".page" by default) becomes one picture:
//
//	c, err := pdfdocx.NewCapturer(pdfdocx.WithNoSandbox())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	res, err := c.CaptureDocument(ctx, "report.html", "screenshots", nil)
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload].
// [WithEngine] switches between chromedp and go-rod.
//
// A [Result] gives access to the generated .docx:
//
//	res.Bytes()                        // []byte
//	res.Reader()                       // *bytes.Reader
//	res.WriteTo(w)                     // io.WriterTo
//	res.WriteToFile("out.docx", 0o644) // write to disk
package pdfdocx
