package cli

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/APTrust/bagit-packager/constants"
	"github.com/APTrust/bagit-packager/util"
)

// Options are the command-line settings shared by apt_bagger and
// apt_bag_verifier.
type Options struct {
	Algorithms     string
	BagName        string
	BagRoot        string
	OutputDir      string
	PrintHelp      bool
	SourceDir      string
	SourceOrg      string
	SubmitterEmail string
	SubmitterName  string
	Upload         bool
}

var EnvMessage = `This requires the following environment vars:

APT_CONFIG_DIR - Path to the directory containing the .env settings file.

APT_PACKAGER_CONFIG - Name of the configuration to load. For example:
    test - Loads .env.test from APT_CONFIG_DIR
    dev  - Loads .env.dev from APT_CONFIG_DIR
`

// BaggerFlags registers apt_bagger's flags on fs.
func BaggerFlags(fs *flag.FlagSet, opts *Options) {
	fs.StringVar(&opts.SourceDir, "source", "", "Directory containing the payload files to bag")
	fs.StringVar(&opts.BagName, "name", "", "Name of the bag. Defaults to the name of the source directory.")
	fs.StringVar(&opts.OutputDir, "output", "", "Directory for the tar file. Defaults to WORKING_DIR.")
	fs.BoolVar(&opts.Upload, "upload", false, "Upload the bag to DEPOSIT_BUCKET instead of writing it to disk")
	fs.StringVar(&opts.SourceOrg, "org", "", "Value for Source-Organization in bag-info.txt")
	fs.StringVar(&opts.SubmitterName, "submitter-name", "", "Name of the person depositing the bag")
	fs.StringVar(&opts.SubmitterEmail, "submitter-email", "", "Email of the person depositing the bag")
	fs.BoolVar(&opts.PrintHelp, "help", false, "Print help message")
}

// VerifierFlags registers apt_bag_verifier's flags on fs.
func VerifierFlags(fs *flag.FlagSet, opts *Options) {
	fs.StringVar(&opts.SourceDir, "source", "", "Directory containing the original payload files")
	fs.StringVar(&opts.BagRoot, "bag", "", "Directory containing the exploded bag")
	fs.StringVar(&opts.Algorithms, "algorithms", "", "Comma-separated list of manifest algorithms to check. Defaults to MANIFEST_ALGORITHMS.")
	fs.BoolVar(&opts.PrintHelp, "help", false, "Print help message")
}

// ParseBaggerOpts parses apt_bagger's command line.
func ParseBaggerOpts(args []string) (*Options, error) {
	opts := &Options{}
	fs := flag.NewFlagSet("apt_bagger", flag.ContinueOnError)
	BaggerFlags(fs, opts)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.PrintHelp {
		return opts, nil
	}
	if opts.SourceDir == "" {
		return nil, fmt.Errorf("Missing required option -source")
	}
	if opts.BagName == "" {
		opts.BagName = filepath.Base(filepath.Clean(opts.SourceDir))
	}
	return opts, nil
}

// ParseVerifierOpts parses apt_bag_verifier's command line.
func ParseVerifierOpts(args []string) (*Options, error) {
	opts := &Options{}
	fs := flag.NewFlagSet("apt_bag_verifier", flag.ContinueOnError)
	VerifierFlags(fs, opts)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.PrintHelp {
		return opts, nil
	}
	if opts.SourceDir == "" || opts.BagRoot == "" {
		return nil, fmt.Errorf("Options -source and -bag are required")
	}
	if algs := opts.AlgorithmList(); algs != nil && !util.StringListContainsAll(constants.DigestAlgorithms, algs) {
		return nil, fmt.Errorf("Option -algorithms must be drawn from %s", strings.Join(constants.DigestAlgorithms, ", "))
	}
	return opts, nil
}

// AlgorithmList splits the -algorithms option. It returns nil if the
// option was not set.
func (opts *Options) AlgorithmList() []string {
	if strings.TrimSpace(opts.Algorithms) == "" {
		return nil
	}
	algs := make([]string, 0)
	for _, alg := range strings.Split(opts.Algorithms, ",") {
		if alg = strings.TrimSpace(alg); alg != "" {
			algs = append(algs, alg)
		}
	}
	return algs
}

// PrintDefaults prints the flags for the named app.
func PrintDefaults(app string) {
	fs := flag.NewFlagSet(app, flag.ContinueOnError)
	opts := &Options{}
	if app == "apt_bag_verifier" {
		VerifierFlags(fs, opts)
	} else {
		BaggerFlags(fs, opts)
	}
	fs.PrintDefaults()
}
