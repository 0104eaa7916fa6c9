package packaging

import "time"

// Submission describes who deposited the custodial resources and
// when. It's resolved upstream of the packager and feeds bag-info.txt.
type Submission struct {
	ID                 string    `json:"id"`
	SourceOrganization string    `json:"source_organization"`
	SubmitterURI       string    `json:"submitter_uri"`
	SubmitterName      string    `json:"submitter_name"`
	SubmitterEmail     string    `json:"submitter_email"`
	SubmittedDate      time.Time `json:"submitted_date"`
	PublisherID        string    `json:"publisher_id"`
	Metadata           string    `json:"metadata"`
}
