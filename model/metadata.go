package model

import "time"

// Metadata contains document-level information written to docProps/core.xml
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords []string
	Creator  string // Producing application
	Created  time.Time
	Modified time.Time
}
