package installer

import (
	"context"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/kpkg/internal/pkgdef"
	"github.com/imamik/kpkg/internal/tracking"
)

// Upgrade applies pkg over an existing instance. Existing resources are
// patched and new ones created. When nothing of the instance exists,
// Upgrade installs it if createAllowed is set and returns ErrAppNotFound
// otherwise.
//
// Auto-rollback only applies when Upgrade creates the instance. Reverting a
// failed upgrade of an existing instance would delete resources that were
// only patched.
func (e *Engine) Upgrade(ctx context.Context, pkg pkgdef.Package, createAllowed bool, trackingLog *tracking.Log) (err error) {
	defer e.observe("upgrade", time.Now(), &err)

	id := pkg.Identity().WithDefaults()
	found, err := e.discover(ctx, id)
	if err != nil {
		return err
	}

	logger := log.FromContext(ctx).WithValues("package", id.String())
	if len(found) == 0 {
		if !createAllowed {
			return fmt.Errorf("%w: %s", ErrAppNotFound, id)
		}
		logger.Info("No existing resources, installing")
	} else {
		logger.Info("Upgrading", "existing", len(found))
	}

	return e.installPackage(ctx, pkg, trackingLog, e.autoRollback && len(found) == 0)
}
