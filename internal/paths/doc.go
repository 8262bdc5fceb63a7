// Provides platform-appropriate paths for the build engine.
//
// All paths follow XDG conventions on Linux and platform-native
// conventions on macOS and Windows. The tool name "quarry" is used as
// the subdirectory under each base path.
package paths
