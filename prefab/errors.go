package prefab

import "fmt"

// UnregisteredTypeError reports a snapshot or patch naming a type the
// registry has no entry for.
type UnregisteredTypeError struct {
	TypeName string
}

func (e *UnregisteredTypeError) Error() string {
	return fmt.Sprintf("prefab contains the unregistered type %q: register it with prefab.Register", e.TypeName)
}

// UnregisteredComponentError reports a type the registry knows but that lacks
// the apply/insert capability (registered with DataOnly).
type UnregisteredComponentError struct {
	TypeName string
}

func (e *UnregisteredComponentError) Error() string {
	return fmt.Sprintf("prefab contains %q which is registered as data only, not as a component", e.TypeName)
}

// NonExistentSnapshotError reports a handle that does not resolve, typically
// because the snapshot is still loading. The spawner treats it as retryable.
type NonExistentSnapshotError struct {
	Handle Handle
}

func (e *NonExistentSnapshotError) Error() string {
	return fmt.Sprintf("prefab snapshot %q does not exist", string(e.Handle))
}

// BadPatchPathError reports a patch field path that does not resolve against
// the value it modifies. It stops the whole write.
type BadPatchPathError struct {
	Path string
	Err  error
}

func (e *BadPatchPathError) Error() string {
	return fmt.Sprintf("prefab patch contains the wrong path %q: %v", e.Path, e.Err)
}

func (e *BadPatchPathError) Unwrap() error {
	return e.Err
}
