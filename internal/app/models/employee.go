package models

// Employee represents a row of the employees table
type Employee struct {
	ID         int64  `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Department string `json:"department" db:"department"`
	Position   string `json:"position" db:"position"`

	// ResumeFilename is the client supplied name, used for display and download only.
	ResumeFilename *string `json:"resumeFilename,omitempty" db:"resume_filename"`
	// ResumeKey is the generated key of the document in file storage.
	ResumeKey         *string `json:"-" db:"resume_key"`
	ResumeContentType *string `json:"resumeContentType,omitempty" db:"resume_content_type"`
}

// HasResume reports whether a document is attached to the employee
func (e *Employee) HasResume() bool {
	return e.ResumeKey != nil && *e.ResumeKey != ""
}

// SetResume attaches a stored document to the employee
func (e *Employee) SetResume(filename, key, contentType string) {
	e.ResumeFilename = &filename
	e.ResumeKey = &key
	if contentType == "" {
		e.ResumeContentType = nil
		return
	}
	e.ResumeContentType = &contentType
}

// Clone returns a copy that shares no pointers with the receiver
func (e *Employee) Clone() *Employee {
	c := *e
	c.ResumeFilename = cloneString(e.ResumeFilename)
	c.ResumeKey = cloneString(e.ResumeKey)
	c.ResumeContentType = cloneString(e.ResumeContentType)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
