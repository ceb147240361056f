package stepform

import (
	"io/fs"

	"github.com/goliatone/go-stepform/pkg/renderers/vanilla"
)

// AssetsFS exposes the default stylesheet so Go applications can serve it
// next to rendered pages.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(stepform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
