// Runs recipe hook scripts as host subprocesses.
//
// Every invocation is a blocking call with an explicit working
// directory and a fixed, caller-supplied environment. Packaging hooks
// may request fakeroot so packaged file ownership can be set without
// real privileges.
package shell
