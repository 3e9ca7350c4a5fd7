package hub

import (
	"fmt"

	"github.com/containers/image/v5/docker/reference"
)

// dockerHubDomain is the registry every repository must resolve to; the API
// this package talks to does not exist anywhere else.
const dockerHubDomain = "docker.io"

// ParseRepository normalizes a user-supplied image name into the repository
// path the Hub API expects: "postgres" becomes "library/postgres",
// "bitnami/postgresql" stays as it is. Names carrying a tag or digest, and
// names resolving to a registry other than Docker Hub, are rejected.
func ParseRepository(image string) (string, error) {
	ref, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return "", fmt.Errorf("parsing image name %q: %w", image, err)
	}
	if !reference.IsNameOnly(ref) {
		return "", fmt.Errorf("image name %q must not include a tag or digest", image)
	}
	if domain := reference.Domain(ref); domain != dockerHubDomain {
		return "", fmt.Errorf("%q is hosted on %s, only Docker Hub repositories can be queried", image, domain)
	}
	return reference.Path(ref), nil
}
