package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/temirov/treescan/internal/render"
	"github.com/temirov/treescan/internal/utils"
)

const (
	outputFilePermissions = 0o644

	// warningClipboardFormat reports a clipboard copy failure.
	warningClipboardFormat = "Warning: unable to copy output to clipboard: %v\n"
	// documentSeparator separates the rendered documents of several paths.
	documentSeparator = "\n"
)

// emitDocuments delivers the rendered documents to stdout, a file, or the
// clipboard as requested.
func emitDocuments(renderedDocuments []string, selectedRenderer render.Renderer, options scanOptions) error {
	combinedOutput := strings.Join(renderedDocuments, documentSeparator)
	if !strings.HasSuffix(combinedOutput, "\n") {
		combinedOutput += "\n"
	}

	if options.copyToClipboard {
		if clipboardError := clipboard.WriteAll(combinedOutput); clipboardError != nil {
			fmt.Fprintf(os.Stderr, warningClipboardFormat, clipboardError)
		}
	}

	if options.outputPath == utils.EmptyString {
		fmt.Print(combinedOutput)
		return nil
	}

	destinationPath := options.outputPath
	if filepath.Ext(destinationPath) == utils.EmptyString {
		destinationPath += selectedRenderer.FileExtension()
	}
	if writeError := os.WriteFile(destinationPath, []byte(combinedOutput), outputFilePermissions); writeError != nil {
		return fmt.Errorf("write output file %s: %w", destinationPath, writeError)
	}
	fmt.Printf(outputWrittenFormat, destinationPath)
	return nil
}
