package packager

import (
	"fmt"
	"time"

	"github.com/APTrust/bagit-packager/bagit"
	"github.com/APTrust/bagit-packager/constants"
	"github.com/APTrust/bagit-packager/models/common"
	"github.com/APTrust/bagit-packager/models/packaging"
	"github.com/APTrust/bagit-packager/util"
	"github.com/google/uuid"
)

// Assembler lays out a single BagIt package. The caller streams each
// custodial resource to the path returned by PackagePath, then calls
// Finish once to get the manifests and tag files.
//
// An Assembler moves from Started to Streaming on the first call to
// PackagePath, and to Finished on the call to Finish. Calling either
// method after Finish panics. Create a new Assembler for each package.
// Assemblers are not safe for concurrent use.
type Assembler struct {
	context *common.Context
	id      string
	options PackageOptions
	stage   string
	writer  *bagit.Writer
}

// NewAssembler returns an Assembler in the Started stage. It returns
// an error if the options name an unsupported algorithm or encoding,
// or if they have no bag-info template.
func NewAssembler(context *common.Context, options PackageOptions) (*Assembler, error) {
	opts := options.copyWithDefaults()
	for _, alg := range opts.Algorithms {
		if !util.StringListContains(constants.DigestAlgorithms, alg) {
			return nil, common.NewError(fmt.Sprintf("Algorithm '%s' is not supported", alg), common.ErrUnsupportedAlgorithm, true)
		}
	}
	if opts.BagInfoTemplate == nil {
		return nil, common.NewError("PackageOptions.BagInfoTemplate cannot be nil", nil, true)
	}
	writer, err := bagit.NewWriter(opts.TagFileEncoding)
	if err != nil {
		return nil, err
	}
	assembler := &Assembler{
		context: context,
		id:      uuid.NewString(),
		options: opts,
		stage:   constants.StageStarted,
		writer:  writer,
	}
	context.Logger.Infof("Assembly %s started with algorithms %v, encoding %s", assembler.id, opts.Algorithms, writer.Encoding())
	return assembler, nil
}

// ID uniquely identifies this assembly in logs.
func (a *Assembler) ID() string {
	return a.id
}

// State returns the current stage: Started, Streaming or Finished.
func (a *Assembler) State() string {
	return a.stage
}

// Options returns a copy of the options this Assembler was built with.
func (a *Assembler) Options() PackageOptions {
	return a.options.copyWithDefaults()
}

// PackagePath returns the path inside the bag at which the resource's
// bytes belong. It returns the same value for the same resource every
// time it's called.
func (a *Assembler) PackagePath(resource packaging.CustodialResource) string {
	a.moveTo(constants.StageStreaming)
	if util.ContainsControlCharacter(resource.Name()) {
		a.context.Logger.Warningf("Assembly %s: resource name %q contains control characters", a.id, resource.Name())
	}
	packagePath := PackagePath(resource)
	a.context.Logger.Debugf("Assembly %s: %s -> %s", a.id, resource.Name(), packagePath)
	return packagePath
}

// Finish returns the payload manifests, in algorithm order, followed by
// bagit.txt and bag-info.txt. The resources must be the same ones the
// caller streamed, in the same order. Finish may be called only once,
// and the Assembler is finished even if Finish returns an error.
func (a *Assembler) Finish(resources []packaging.CustodialResource) ([]packaging.SupplementalResource, error) {
	a.moveTo(constants.StageFinished)
	now := a.options.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	manifests, err := BuildManifests(a.writer, resources, a.options.Algorithms, now)
	if err != nil {
		a.context.Logger.Errorf("Assembly %s: cannot build manifests: %v", a.id, err)
		return nil, err
	}
	declaration, err := BuildDeclaration(a.writer, a.options.BagItVersion, now)
	if err != nil {
		a.context.Logger.Errorf("Assembly %s: cannot build bag declaration: %v", a.id, err)
		return nil, err
	}
	bagInfo, err := a.composeBagInfo(resources, now)
	if err != nil {
		a.context.Logger.Errorf("Assembly %s: cannot build bag-info: %v", a.id, err)
		return nil, err
	}

	supplemental := append(manifests, declaration, bagInfo)
	a.context.Logger.Infof("Assembly %s finished: %d payload files, %d supplemental resources", a.id, len(resources), len(supplemental))
	return supplemental, nil
}

func (a *Assembler) composeBagInfo(resources []packaging.CustodialResource, now time.Time) (packaging.SupplementalResource, error) {
	tmpl, err := a.options.BagInfoTemplate()
	if err != nil {
		return nil, common.IOError(err, "Cannot open bag-info template")
	}
	defer tmpl.Close()
	return ComposeBagInfo(resources, a.options.Submission, tmpl, a.options.Parameterizer, a.writer, a.options.BagItVersion, now)
}

func (a *Assembler) moveTo(stage string) {
	if !constants.CanTransition(a.stage, stage) {
		panic(fmt.Sprintf("Assembly %s cannot move from %s to %s", a.id, a.stage, stage))
	}
	a.stage = stage
}
