// Package otl2tex converts tab-indented outline documents to LaTeX.
//
// # Quick Start
//
// Create a converter and convert an outline:
//
//	conv, err := otl2tex.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, otl2tex.Input{
//	    Outline:    "Title\n\tbody text",
//	    SourceName: "notes.otl",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("notes.tex", []byte(result.Document), 0644)
//
// The result contains the complete document (result.Document) and the
// rendered body without header and footer (result.Body) for debugging.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Indentation-tree building (tab depth, placeholder bridging of jumps)
//  2. Preamble collection (!documentclass, !preamble)
//  3. Recursive style-driven rendering (directives, continuation joining,
//     URL folding, math-aware escaping)
//  4. Document assembly (banner, preamble, document environment)
//
// # Styles
//
// Line styles are selected per depth by a compact style code such as "SSN":
// sections at the first two depths, plain lines below. The S, s and T
// letters are auto-numbered by occurrence, the remaining ids (N, P, I, E)
// stand for themselves. !format and !tmpformat switch codes mid-document.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := otl2tex.NewConverter(
//	    otl2tex.WithFormat("SSsN"),
//	    otl2tex.WithEvaluator(myRuby),
//	    otl2tex.WithFileReader(otl2tex.DirFileReader{Base: srcDir}),
//	)
//
// The !ruby directive only runs when an Evaluator is injected; without one
// it renders a diagnostic block instead of failing the conversion.
package otl2tex
