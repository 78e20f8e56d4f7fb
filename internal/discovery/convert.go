package discovery

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Converter writes the plain text of src to dst
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// ConverterFunc adapts a function to Converter
type ConverterFunc func(ctx context.Context, src, dst string) error

func (f ConverterFunc) Convert(ctx context.Context, src, dst string) error {
	return f(ctx, src, dst)
}

// HTMLConverter extracts the text nodes of an HTML page, one per line, skipping scripts and styles.
var HTMLConverter = ConverterFunc(func(_ context.Context, src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- src comes from List
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst) // #nosec G304 -- dst is inside the work directory
	if err != nil {
		return err
	}
	if err := HTMLToText(in, out); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
})

// HTMLToText writes the visible text of an HTML document to w.
// Each text node becomes its own line so line-based matching does not join unrelated blocks.
func HTMLToText(r io.Reader, w io.Writer) error {
	doc, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	var writeErr error
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if writeErr != nil {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				_, writeErr = io.WriteString(w, text+"\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)
	return writeErr
}

// PDFConverter runs pdftotext
var PDFConverter = ConverterFunc(func(ctx context.Context, src, dst string) error {
	return run(exec.CommandContext(ctx, "pdftotext", src, dst)) // #nosec G204 -- fixed binary, file arguments
})

// DocxConverter runs LibreOffice headless into a scratch directory next to dst and moves the result into place.
var DocxConverter = ConverterFunc(func(ctx context.Context, src, dst string) error {
	scratch, err := os.MkdirTemp(filepath.Dir(dst), "libreoffice-")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.RemoveAll(scratch)
	}()

	cmd := exec.CommandContext(ctx, "libreoffice", "--headless", "--convert-to", "txt:Text", src, "--outdir", scratch) // #nosec G204 -- fixed binary, file arguments
	if err := run(cmd); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return os.Rename(filepath.Join(scratch, base+".txt"), dst)
})

func run(cmd *exec.Cmd) error {
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", filepath.Base(cmd.Path), err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Preparer turns the supported files of a directory into plain-text paths
type Preparer struct {
	converters map[string]Converter
	logger     *log.Logger
}

// PreparerOption configures a Preparer
type PreparerOption func(*Preparer)

// WithConverter registers the converter for an extension such as ".pdf"
func WithConverter(ext string, converter Converter) PreparerOption {
	return func(p *Preparer) {
		p.converters[strings.ToLower(ext)] = converter
	}
}

// WithLogger sets the logger conversion failures are reported to
func WithLogger(logger *log.Logger) PreparerOption {
	return func(p *Preparer) {
		p.logger = logger
	}
}

// NewPreparer creates a preparer with the default converters
func NewPreparer(opts ...PreparerOption) *Preparer {
	p := &Preparer{
		converters: map[string]Converter{
			".html": HTMLConverter,
			".htm":  HTMLConverter,
			".pdf":  PDFConverter,
			".docx": DocxConverter,
		},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare lists srcDir and returns one plain-text path per supported file, in name order.
//
// Text files are used in place. Other formats are converted into workDir as "<file name>.txt",
// which keeps every document's name distinct. A failed conversion is logged and its output path
// is still returned with nothing behind it, so the document shows up as unreadable instead of
// disappearing from the run or being read from a previous run's output.
func (p *Preparer) Prepare(ctx context.Context, srcDir, workDir string) ([]string, error) {
	files, err := List(srcDir)
	if err != nil {
		return nil, err
	}

	needsWorkDir := false
	for _, file := range files {
		if strings.ToLower(filepath.Ext(file)) != ".txt" {
			needsWorkDir = true
			break
		}
	}
	if needsWorkDir {
		if err := os.MkdirAll(workDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create work directory %s: %w", workDir, err)
		}
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ext := strings.ToLower(filepath.Ext(file))
		if ext == ".txt" {
			paths = append(paths, file)
			continue
		}

		dst := filepath.Join(workDir, filepath.Base(file)+".txt")
		// Output left by an earlier run must never stand in for this conversion
		if err := removeStale(dst); err != nil {
			return nil, err
		}
		converter, ok := p.converters[ext]
		if !ok {
			p.logger.Printf("Warning: no converter registered for %s", file)
		} else if err := converter.Convert(ctx, file, dst); err != nil {
			p.logger.Printf("Warning: failed to convert %s: %v", file, err)
			if err := removeStale(dst); err != nil {
				return nil, err
			}
		}
		paths = append(paths, dst)
	}
	return paths, nil
}

func removeStale(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale conversion %s: %w", path, err)
	}
	return nil
}
