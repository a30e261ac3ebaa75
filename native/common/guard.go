// Package common carries the cross-cutting entry-point guards shared by the
// native xAsset modules (native/cdp, native/stabilitypool, native/access):
// pause gating and the admin-only check, grounded on the teacher's
// PauseView/Guard pattern (native/common/guard.go), generalized to return the
// protocol's own error taxonomy instead of a sentinel error.
package common

import "xassetcore/core/errors"

// PauseView reports whether a named module has been administratively paused.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard rejects the call with CodeModulePaused if the module is paused.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return errors.New(errors.CodeModulePaused, "module %q is paused", module)
	}
	return nil
}

// RequireAdmin rejects the call with CodeNotAuthorized unless caller equals admin.
func RequireAdmin(admin, caller string) error {
	if admin == "" {
		return errors.New(errors.CodeNotInitialized, "admin not configured")
	}
	if caller != admin {
		return errors.New(errors.CodeNotAuthorized, "caller is not the admin")
	}
	return nil
}
