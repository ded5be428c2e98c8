// Package loaders provides implementations of the Loader interface for
// the document formats docchat can ingest, plus the registry that
// dispatches on file extension and the dataset file parser.
//
// Loaders are registered with the LoaderRegistry at startup.
package loaders
