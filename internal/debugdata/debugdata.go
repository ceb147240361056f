// Package debugdata bundles the sample form served when no live source is
// reachable.
package debugdata

import (
	_ "embed"

	"github.com/goliatone/go-stepform/pkg/schema"
)

// Name labels the embedded document's source.
const Name = "debugdata/formConfig.json"

//go:embed formConfig.json
var formConfig []byte

// Raw returns a copy of the embedded document.
func Raw() []byte {
	return append([]byte(nil), formConfig...)
}

// Document returns the embedded document with an embedded source.
func Document() schema.Document {
	return schema.MustNewDocument(schema.SourceFromEmbedded(Name), formConfig)
}
