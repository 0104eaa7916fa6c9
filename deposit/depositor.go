package deposit

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/APTrust/bagit-packager/models/common"
	"github.com/APTrust/bagit-packager/models/packaging"
	"github.com/APTrust/bagit-packager/packager"
)

// The depositor pipes data as follows:
//
// Custodial resources -> Assembler -> TarPipeWriter -> Target
//
// The tarball holds the payload followed by the manifests and tag
// files, all under a single top-level directory named for the bag.

// Result describes a finished deposit.
type Result struct {
	AssemblyID   string
	BagName      string
	Location     string
	PayloadFiles int
	BytesWritten int64
	Supplemental []string
}

// Depositor assembles a bag from custodial resources and streams it
// as a tar archive to a Target.
type Depositor struct {
	Context *common.Context
	Options packager.PackageOptions
	Target  Target

	bytesWritten int64
	uploadError  error
	wg           sync.WaitGroup
}

func NewDepositor(context *common.Context, options packager.PackageOptions, target Target) *Depositor {
	return &Depositor{
		Context: context,
		Options: options,
		Target:  target,
	}
}

// ObjectName returns the name of the tar archive for bagName.
func ObjectName(bagName string) string {
	return bagName + ".tar"
}

// Deposit builds the bag and sends it to the target. Each resource's
// bytes are checked against its recorded checksums as they stream
// through, and a mismatch fails the deposit. A Depositor may be used
// for one deposit at a time.
func (d *Depositor) Deposit(ctx context.Context, bagName string, resources []packaging.CustodialResource) (*Result, error) {
	assembler, err := packager.NewAssembler(d.Context, d.Options)
	if err != nil {
		return nil, err
	}
	objectName := ObjectName(bagName)
	tarPipeWriter := NewTarPipeWriter()
	d.initUploader(ctx, objectName, map[string]string{"assembly-id": assembler.ID()}, tarPipeWriter)

	supplemental, err := d.writeBag(assembler, tarPipeWriter, bagName, resources)
	if err != nil {
		tarPipeWriter.Abort(err)
	} else {
		err = tarPipeWriter.Finish()
	}
	d.wg.Wait()

	// A failed upload closes the pipe, so writes fail with ErrIO too.
	if d.uploadError != nil && (err == nil || errors.Is(err, common.ErrIO)) {
		d.Context.Logger.Errorf("Assembly %s: upload of %s failed: %v", assembler.ID(), objectName, d.uploadError)
		return nil, d.uploadError
	}
	if err != nil {
		d.Context.Logger.Errorf("Assembly %s: cannot write %s: %v", assembler.ID(), objectName, err)
		return nil, err
	}

	result := &Result{
		AssemblyID:   assembler.ID(),
		BagName:      bagName,
		Location:     d.Target.Location(objectName),
		PayloadFiles: len(resources),
		BytesWritten: d.bytesWritten,
	}
	for _, resource := range supplemental {
		result.Supplemental = append(result.Supplemental, resource.PackagePath())
	}
	d.Context.Logger.Infof("Assembly %s: deposited %s to %s (%d bytes)", assembler.ID(), bagName, result.Location, result.BytesWritten)
	return result, nil
}

// initUploader starts copying from the pipe to the target. If the
// upload fails, the pipe is closed with the error so writes into it
// fail rather than block.
func (d *Depositor) initUploader(ctx context.Context, objectName string, metadata map[string]string, tarPipeWriter *TarPipeWriter) {
	d.bytesWritten = 0
	d.uploadError = nil
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		reader := tarPipeWriter.GetReader()
		d.bytesWritten, d.uploadError = d.Target.Upload(ctx, objectName, reader, metadata)
		if d.uploadError != nil {
			reader.CloseWithError(d.uploadError)
			return
		}
		d.Context.Logger.Infof("Finished uploading tar file %s", objectName)
	}()
	d.Context.Logger.Infof("Initialized uploader for %s going to %s", objectName, d.Target.Location(objectName))
}

func (d *Depositor) writeBag(assembler *packager.Assembler, tarPipeWriter *TarPipeWriter, bagName string, resources []packaging.CustodialResource) ([]packaging.SupplementalResource, error) {
	algorithms := assembler.Options().Algorithms
	for _, resource := range resources {
		packagePath := assembler.PackagePath(resource)
		if err := d.addPayloadFile(tarPipeWriter, bagName+"/"+packagePath, resource, algorithms); err != nil {
			return nil, err
		}
	}
	supplemental, err := assembler.Finish(resources)
	if err != nil {
		return nil, err
	}
	for _, resource := range supplemental {
		header := &tar.Header{
			Name:     path.Join(bagName, resource.PackagePath()),
			Size:     resource.ContentLength(),
			Mode:     0644,
			ModTime:  resource.LastModified(),
			Typeflag: tar.TypeReg,
		}
		if _, err := tarPipeWriter.AddFile(header, resource.Open(), nil); err != nil {
			return nil, err
		}
	}
	return supplemental, nil
}

// addPayloadFile writes the resource at tarPath, and compares the
// streamed digests to the recorded ones.
func (d *Depositor) addPayloadFile(tarPipeWriter *TarPipeWriter, tarPath string, resource packaging.CustodialResource, algorithms []string) error {
	reader, err := resource.Open()
	if err != nil {
		return common.IOError(err, "Cannot open %s", resource.Name())
	}
	defer reader.Close()
	modTime := resource.ModTime()
	if modTime.IsZero() {
		modTime = time.Now().UTC()
	}
	header := &tar.Header{
		Name:     tarPath,
		Size:     resource.Size(),
		Mode:     0644,
		ModTime:  modTime,
		Typeflag: tar.TypeReg,
	}
	digests, err := tarPipeWriter.AddFile(header, reader, algorithms)
	if err != nil {
		return err
	}
	for _, alg := range algorithms {
		checksum := packaging.ChecksumFor(resource, alg)
		if checksum == nil {
			// The assembler reports this when it builds the manifests.
			continue
		}
		if checksum.Hex() != digests[alg] {
			return common.NewError(
				fmt.Sprintf("%s digest of %s is %s, but the recorded checksum is %s", alg, resource.Name(), digests[alg], checksum.Hex()),
				common.ErrVerificationMismatch, true)
		}
	}
	return nil
}
