package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/formvane/formvane/internal/config"
	"github.com/formvane/formvane/internal/export"
	"github.com/formvane/formvane/internal/logging"
	"github.com/formvane/formvane/internal/process"
)

var (
	outputFormat = flag.String("format", "text", "Output format: text, json, csv")
	outputPath   = flag.String("output", "", "Write output to file instead of stdout")
	templateDir  = flag.String("templates", "", "Directory containing YAML form templates")
	logLevel     = flag.String("loglevel", "warn", "Log level (debug, info, warn, error)")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file or directory path required\n\n")
		printUsage()
		os.Exit(1)
	}

	logging.Init(logging.ParseLevel(*logLevel), "text", os.Stderr)

	target := flag.Arg(0)
	info, err := os.Stat(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot access %s: %v\n", target, err)
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	cfg.TemplateDirectory = *templateDir
	cfg.LogLevel = *logLevel
	if info.IsDir() {
		cfg.PDFDirectory = target
	}

	processor, err := process.NewProcessor(cfg, logging.New("processor"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var results []process.DocumentResult
	if info.IsDir() {
		results, err = processor.ProcessDirectory(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing directory: %v\n", err)
			os.Exit(1)
		}
	} else {
		results = []process.DocumentResult{processor.ProcessFile(target)}
	}

	out := io.Writer(os.Stdout)
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := outputResults(out, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}

	// A batch where nothing opened is a failure exit.
	summary := export.Summarize(results)
	if summary.Failed == summary.Documents && summary.Documents > 0 {
		os.Exit(1)
	}
}

func outputResults(w io.Writer, results []process.DocumentResult) error {
	switch *outputFormat {
	case "json":
		return export.WriteJSON(w, results)
	case "csv":
		return export.WriteCSV(w, results)
	case "text":
		return outputText(w, results)
	default:
		return fmt.Errorf("unknown output format: %s", *outputFormat)
	}
}

func outputText(w io.Writer, results []process.DocumentResult) error {
	for _, res := range results {
		fmt.Fprintf(w, "=== %s ===\n", res.File)
		if res.FormType != "" {
			fmt.Fprintf(w, "Form Type: %s\n", res.FormType)
		}
		fmt.Fprintf(w, "Status: %s\n", res.Status)
		if res.Path != "" {
			fmt.Fprintf(w, "Extraction: %s\n", res.Path)
		}
		if res.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", res.Error)
		}
		for _, rec := range res.Records {
			fmt.Fprintf(w, "  [page %d] %-30s %s  (%s @ %s)\n",
				rec.Page, rec.Key+":", rec.Value, rec.Method, rec.Coords())
		}
		if len(res.MissingRequired) > 0 {
			fmt.Fprintf(w, "Missing required fields: %v\n", res.MissingRequired)
		}
		fmt.Fprintln(w)
	}

	s := export.Summarize(results)
	fmt.Fprintf(w, "%d document(s): %d succeeded, %d no data, %d failed, %d records\n",
		s.Documents, s.Succeeded, s.NoData, s.Failed, s.Records)
	return nil
}

func printHelp() {
	fmt.Println("formvane - extract key-value data from PDF forms")
	fmt.Println()
	fmt.Println("Reads filled-in PDF forms and emits the labelled data they contain,")
	fmt.Println("using interactive form fields when present and spatial text heuristics")
	fmt.Println("otherwise. With a template directory, known form layouts are parsed")
	fmt.Println("by their declared field lists.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format      Output format: text (default), json, csv")
	fmt.Println("  -output      Write output to a file instead of stdout")
	fmt.Println("  -templates   Directory containing YAML form templates")
	fmt.Println("  -loglevel    Log level (debug, info, warn, error)")
	fmt.Println("  -help        Show this help message")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  formvane [options] <file.pdf | directory>")
}
