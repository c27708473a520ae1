package version

import (
	"fmt"
	"runtime"

	goVersion "github.com/hashicorp/go-version"
)

const (
	unknownVersion  = "<unknown>"
	cliVersionTitle = "Forge CLI"
)

// Set at build time through ldflags, see the build script.
var (
	gitTag    string
	gitCommit string
)

// normalizedTag converts the raw git tag to a dotted version string.
// A tag that is not a semantic version is returned as is.
func normalizedTag() string {
	if gitTag == "" {
		return unknownVersion
	}
	tag, err := goVersion.NewSemver(gitTag)
	if err != nil {
		return gitTag
	}
	return tag.String()
}

// GetVersion returns Forge CLI version information.
func GetVersion(showShort bool, needCommit bool) string {
	version := normalizedTag()
	if needCommit {
		version = fmt.Sprintf("%s.%s", version, gitCommit)
	}
	if showShort || needCommit {
		return version
	}

	return fmt.Sprintf("%s version %s, %s/%s. commit: %s",
		cliVersionTitle, version, runtime.GOOS, runtime.GOARCH, gitCommit)
}
