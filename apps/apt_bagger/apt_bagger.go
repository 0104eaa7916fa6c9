package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/APTrust/bagit-packager/deposit"
	"github.com/APTrust/bagit-packager/models/common"
	"github.com/APTrust/bagit-packager/models/packaging"
	"github.com/APTrust/bagit-packager/packager"
	"github.com/APTrust/bagit-packager/util"
	"github.com/APTrust/bagit-packager/util/cli"
)

func main() {
	opts, err := cli.ParseBaggerOpts(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		printHelp()
		os.Exit(2)
	}
	if opts.PrintHelp {
		printHelp()
		os.Exit(0)
	}
	os.Exit(run(opts))
}

func run(opts *cli.Options) int {
	_context := common.NewContext()
	log := _context.Logger

	pidFile := util.NewPidFile(_context.Config.WorkingDir, opts.BagName)
	if err := pidFile.Acquire(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	defer pidFile.Release()

	resources, err := packaging.LoadDirectory(opts.SourceDir, _context.Config.ManifestAlgorithms)
	if err != nil {
		log.Errorf("Cannot read payload from %s: %v", opts.SourceDir, err)
		fmt.Fprintf(os.Stderr, "Cannot read payload from %s: %v\n", opts.SourceDir, err)
		return 1
	}
	log.Infof("Bagging %d files from %s as %s", len(resources), opts.SourceDir, opts.BagName)

	target, err := getTarget(_context, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	if fileTarget, ok := target.(*deposit.FileTarget); ok {
		volume, err := reserveSpace(fileTarget.Dir, opts.BagName, resources)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return 1
		}
		defer volume.Release(opts.BagName)
	}

	submission := &packaging.Submission{
		ID:                 opts.BagName,
		SourceOrganization: opts.SourceOrg,
		SubmitterName:      opts.SubmitterName,
		SubmitterEmail:     opts.SubmitterEmail,
		SubmittedDate:      time.Now().UTC(),
	}
	depositor := deposit.NewDepositor(_context, packager.OptionsFromConfig(_context.Config, submission), target)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	result, err := depositor.Deposit(ctx, opts.BagName, resources)
	if err != nil {
		if detailed, ok := err.(common.DetailedError); ok {
			log.Error(detailed.Detail())
		} else {
			log.Error(err.Error())
		}
		fmt.Fprintf(os.Stderr, "Bagging failed: %v\n", err)
		return 1
	}
	fmt.Printf("Bag %s (assembly %s): %d payload files, %d bytes written to %s\n",
		result.BagName, result.AssemblyID, result.PayloadFiles, result.BytesWritten, result.Location)
	return 0
}

func getTarget(_context *common.Context, opts *cli.Options) (deposit.Target, error) {
	if opts.Upload {
		if _context.S3Client == nil {
			return nil, fmt.Errorf("Cannot upload: S3_HOST is not set in config %s", _context.Config.ConfigName)
		}
		return deposit.NewS3Target(_context.S3Client, _context.Config.DepositBucket, _context.Logger), nil
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = _context.Config.WorkingDir
	}
	if !util.IsDirectory(outputDir) {
		return nil, fmt.Errorf("Output directory %s does not exist", outputDir)
	}
	return deposit.NewFileTarget(outputDir), nil
}

// reserveSpace makes sure the output disk can hold the tar file. Tag
// files and tar headers add a little on top of the payload.
func reserveSpace(outputDir, bagName string, resources []packaging.CustodialResource) (*util.Volume, error) {
	volume := util.NewVolume(outputDir)
	payloadSize := packaging.TotalSize(resources)
	overhead := int64(len(resources)+16) * 2048
	if err := volume.Reserve(bagName, uint64(payloadSize+overhead)); err != nil {
		return nil, err
	}
	return volume, nil
}

func printHelp() {
	message := `
apt_bagger packages the files in a directory as a BagIt bag and writes
it as a tar file, either to disk or to the S3 deposit bucket.

The bag holds the payload under data/, one payload manifest for each
algorithm in MANIFEST_ALGORITHMS, bagit.txt, and a bag-info.txt
rendered from BAG_INFO_TEMPLATE. Tag files are written in
TAG_FILE_ENCODING.

Usage: apt_bagger -source <dir> [-name <bag name>] [-output <dir> | -upload]
`
	fmt.Println(message)
	cli.PrintDefaults("apt_bagger")
	fmt.Println(cli.EnvMessage)
}
