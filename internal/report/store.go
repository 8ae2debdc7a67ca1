package report

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Persistence is the port the store saves through. The production backend
// is a local file; tests inject an in-memory implementation.
type Persistence interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Store owns the editable report record. It initializes from the
// persistence port (falling back to a default record when nothing usable is
// stored) and writes the record back on every mutation.
type Store struct {
	mu     sync.Mutex
	record *Report
	port   Persistence
}

// NewStore creates a store backed by the given persistence port. A missing
// or unparseable stored record is replaced by the default record; it is not
// an error, matching editor startup behavior.
func NewStore(port Persistence) *Store {
	s := &Store{port: port}

	data, err := port.Load()
	if err != nil {
		s.record = DefaultReport()
		return s
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		log.Printf("stored record is not valid JSON, starting fresh: %v", err)
		s.record = DefaultReport()
		return s
	}

	normalize(&r)
	s.record = &r
	return s
}

// normalize repairs nil slices after decoding so mutators can append
// without nil checks and snapshots serialize as [] rather than null.
func normalize(r *Report) {
	if r.Parts == nil {
		r.Parts = []Part{}
	}
	if r.Photos == nil {
		r.Photos = []Photo{}
	}
}

// Report returns a deep copy of the current record.
func (s *Store) Report() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

// DocumentName returns the identifier used to title exported artifacts.
func (s *Store) DocumentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.DocumentName()
}

// persistLocked writes the current record through the port. Callers hold mu.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.record, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize record: %w", err)
	}
	if err := s.port.Save(data); err != nil {
		return fmt.Errorf("cannot persist record: %w", err)
	}
	return nil
}

// mutate applies fn to the record under the lock and persists the result.
func (s *Store) mutate(fn func(*Report)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.record)
	return s.persistLocked()
}

// SetAdmin replaces the administrative header fields.
func (s *Store) SetAdmin(a Admin) error {
	return s.mutate(func(r *Report) { r.Admin = a })
}

// SetCustomer replaces the customer block.
func (s *Store) SetCustomer(c Customer) error {
	return s.mutate(func(r *Report) { r.Customer = c })
}

// SetTiming replaces the timing block.
func (s *Store) SetTiming(t Timing) error {
	return s.mutate(func(r *Report) { r.Timing = t })
}

// SetJobTypes replaces the job classification checkboxes.
func (s *Store) SetJobTypes(j JobTypes) error {
	return s.mutate(func(r *Report) { r.JobTypes = j })
}

// SetServiceTypes replaces the service classification checkboxes.
func (s *Store) SetServiceTypes(t ServiceTypes) error {
	return s.mutate(func(r *Report) { r.ServiceTypes = t })
}

// SetWorkPerformed replaces the work description text.
func (s *Store) SetWorkPerformed(text string) error {
	return s.mutate(func(r *Report) { r.WorkPerformed = text })
}

// SetRemarks replaces the remarks text.
func (s *Store) SetRemarks(text string) error {
	return s.mutate(func(r *Report) { r.Remarks = text })
}

// SetLogo replaces the embedded logo image.
func (s *Store) SetLogo(dataURL string) error {
	return s.mutate(func(r *Report) { r.Logo = dataURL })
}

// AddPart appends a line to the parts table.
func (s *Store) AddPart(p Part) error {
	return s.mutate(func(r *Report) { r.Parts = append(r.Parts, p) })
}

// UpdatePart replaces the part line at index i.
func (s *Store) UpdatePart(i int, p Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.record.Parts) {
		return fmt.Errorf("part index %d out of range", i)
	}
	s.record.Parts[i] = p
	return s.persistLocked()
}

// RemovePart deletes the part line at index i.
func (s *Store) RemovePart(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.record.Parts) {
		return fmt.Errorf("part index %d out of range", i)
	}
	s.record.Parts = append(s.record.Parts[:i], s.record.Parts[i+1:]...)
	return s.persistLocked()
}

// AddPhotos appends photos in the given order.
func (s *Store) AddPhotos(photos []Photo) error {
	return s.mutate(func(r *Report) { r.Photos = append(r.Photos, photos...) })
}

// SetPhotoCaption updates the caption of the photo with the given id.
func (s *Store) SetPhotoCaption(id, caption string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.record.Photos {
		if s.record.Photos[i].ID == id {
			s.record.Photos[i].Caption = caption
			return s.persistLocked()
		}
	}
	return fmt.Errorf("no photo with id %s", id)
}

// RemovePhoto deletes the photo with the given id.
func (s *Store) RemovePhoto(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.record.Photos {
		if s.record.Photos[i].ID == id {
			s.record.Photos = append(s.record.Photos[:i], s.record.Photos[i+1:]...)
			return s.persistLocked()
		}
	}
	return fmt.Errorf("no photo with id %s", id)
}

// SetTechnicianSignature replaces the technician signature block.
func (s *Store) SetTechnicianSignature(sig Signature) error {
	return s.mutate(func(r *Report) { r.Technician = sig })
}

// SetCustomerSignature replaces the customer signature block.
func (s *Store) SetCustomerSignature(sig Signature) error {
	return s.mutate(func(r *Report) { r.CustomerSig = sig })
}
