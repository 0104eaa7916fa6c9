package main

import (
	"fmt"
	"os"

	"github.com/APTrust/bagit-packager/constants"
	"github.com/APTrust/bagit-packager/models/common"
	"github.com/APTrust/bagit-packager/models/packaging"
	"github.com/APTrust/bagit-packager/packager"
	"github.com/APTrust/bagit-packager/util/cli"
)

func main() {
	opts, err := cli.ParseVerifierOpts(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		printHelp()
		os.Exit(2)
	}
	if opts.PrintHelp {
		printHelp()
		os.Exit(0)
	}

	_context := common.NewContext()
	algorithms := opts.AlgorithmList()
	if len(algorithms) == 0 {
		algorithms = _context.Config.ManifestAlgorithms
	}

	// Names are all the verifier needs from the originals; digests
	// are recomputed from the files in the bag.
	expected, err := packaging.LoadDirectory(opts.SourceDir, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read %s: %v\n", opts.SourceDir, err)
		os.Exit(1)
	}

	verifier, err := packager.NewVerifier(_context.Logger, constants.BagItVersion, _context.Config.TagFileEncoding)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if err = verifier.Verify(expected, opts.BagRoot, algorithms); err != nil {
		fmt.Fprintf(os.Stderr, "Bag %s is not valid: %v\n", opts.BagRoot, err)
		os.Exit(1)
	}
	fmt.Printf("Bag %s is valid (%d payload files, algorithms %v)\n", opts.BagRoot, len(expected), algorithms)
}

func printHelp() {
	message := `
apt_bag_verifier checks an exploded bag against the directory it was
built from. Every source file must appear in the bag's payload and
manifests with a matching digest, and bagit.txt and bag-info.txt must
be present and well formed.

Usage: apt_bag_verifier -source <dir> -bag <dir> [-algorithms md5,sha256]
`
	fmt.Println(message)
	cli.PrintDefaults("apt_bag_verifier")
	fmt.Println(cli.EnvMessage)
}
