package pipeline

import (
	"path"

	"github.com/sells-group/hrdocs-cli/internal/model"
)

// Destination subfolders by document type. Unknown types fall back to the
// contracts folder.
var documentFolders = map[model.DocumentType]string{
	model.DocTypeContract:       "contracts",
	model.DocTypeAddendum:       "anexos",
	model.DocTypeProcessingData: "processing-data",
	model.DocTypeSCTRReport:     "sctr-reports",
}

// folderFor returns the upload folder for a document type under base.
func folderFor(base string, dt model.DocumentType) string {
	sub, ok := documentFolders[dt]
	if !ok {
		sub = documentFolders[model.DocTypeContract]
	}
	return path.Join(base, sub)
}
