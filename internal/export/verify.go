package export

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// VerifyArtifact checks a written PDF artifact: it must validate
// structurally and contain exactly the number of pages the slice plan
// produced. A mismatch means the export went wrong and the artifact must
// not be trusted.
func VerifyArtifact(path string, wantPages int) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("artifact failed validation: %w", err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return fmt.Errorf("cannot count artifact pages: %w", err)
	}
	if pages != wantPages {
		return fmt.Errorf("artifact has %d pages, expected %d", pages, wantPages)
	}
	return nil
}
