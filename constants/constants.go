package constants

const (
	AlgMd5             = "md5"
	AlgSha1            = "sha1"
	AlgSha256          = "sha256"
	AlgSha512          = "sha512"
	BagDeclarationFile = "bagit.txt"
	BagInfoFile        = "bag-info.txt"
	BagItVersion       = "1.0"
	DefaultAlgorithm   = AlgSha512
	DefaultTagEncoding = "UTF-8"
	PayloadDir         = "data"
	PayloadPrefix      = PayloadDir + "/"
)

// Tag labels written into bagit.txt, and the payload manifest name.
const (
	LabelBagItVersion    = "BagIt-Version"
	LabelTagFileEncoding = "Tag-File-Character-Encoding"
	ManifestNameFormat   = "manifest-%s.txt"
)

// DigestAlgorithms lists the payload manifest algorithms this packager
// knows how to write and verify.
var DigestAlgorithms []string = []string{
	AlgMd5,
	AlgSha1,
	AlgSha256,
	AlgSha512,
}
