package packaging

// BagModel holds the values available to the bag-info.txt template.
type BagModel struct {
	BagItVersion           string
	BagSizeBytes           int64
	BagSizeBytesFormatted  string
	BagSizeHumanReadable   string
	BaggingDate            string
	CustodialFileCount     int64
	PayloadOxum            string
	PublisherID            string
	SourceOrganization     string
	Submission             *Submission
	SubmissionDate         string
	SubmissionMetadata     string
	SubmissionURI          string
	SubmissionUserEmail    string
	SubmissionUserFullName string
	SubmissionUserURI      string
}
