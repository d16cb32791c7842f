// Package cli is the couplespace command-line exporter.
//
// It exports the local journal (or, with -remote, a server-side space) in
// one of three shapes and writes the artifact into the output directory:
//
//	-mode all     whole database, -format json|markdown
//	-mode month   zip backup of -year/-month, optionally -seal'ed
//	-mode report  annual Markdown report of -year
//
// and a few housekeeping modes:
//
//	-mode import  load a flat JSON export (-in), -replace to overwrite
//	-mode open    decrypt a sealed backup (-in) next to the original
//	-mode owner   print the couple space id of the local journal
//
// -demo swaps the journal for a small in-memory sample.
package cli
