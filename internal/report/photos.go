package report

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/fieldserve/servicereport/internal/dataurl"
)

// PhotoError reports a single file that could not be ingested. The failed
// file is skipped; it never aborts the rest of the batch.
type PhotoError struct {
	Path string
	Err  error
}

func (e *PhotoError) Error() string {
	return fmt.Sprintf("photo %s: %v", e.Path, e.Err)
}

func (e *PhotoError) Unwrap() error {
	return e.Err
}

// IngestPhotos reads and converts the given image files concurrently and
// appends the successful ones to the record as new photos, in the original
// selection order regardless of which conversion finishes first. Each photo
// gets a fresh unique id. Files that cannot be read or are not images are
// reported in the returned error list and skipped.
func (s *Store) IngestPhotos(paths []string) ([]Photo, []*PhotoError, error) {
	if len(paths) == 0 {
		return nil, nil, nil
	}

	type slot struct {
		photo Photo
		err   *PhotoError
	}

	// One indexed slot per file keeps completion order irrelevant.
	slots := make([]slot, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			raw, err := os.ReadFile(path)
			if err != nil {
				slots[i].err = &PhotoError{Path: path, Err: err}
				return
			}
			url, err := dataurl.Encode(raw)
			if err != nil {
				slots[i].err = &PhotoError{Path: path, Err: err}
				return
			}
			slots[i].photo = Photo{
				ID:    uuid.NewString(),
				Image: url,
			}
		}(i, path)
	}
	wg.Wait()

	var added []Photo
	var failed []*PhotoError
	for _, sl := range slots {
		if sl.err != nil {
			failed = append(failed, sl.err)
			continue
		}
		added = append(added, sl.photo)
	}

	if len(added) > 0 {
		if err := s.AddPhotos(added); err != nil {
			return nil, failed, err
		}
	}
	return added, failed, nil
}
