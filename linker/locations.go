package linker

import (
	"os"
	"sort"

	"github.com/dotforge/dotkit/errors"
	"github.com/pelletier/go-toml/v2"
)

// DefaultLocationsName is the file the linker reads from the source directory.
const DefaultLocationsName = "locations.toml"

// Locations maps link destinations to their sources. Both sides are
// slash-relative paths: destinations under the install directory, sources
// under the dotfiles directory. An empty source marks the destination for
// removal.
type Locations map[string]string

// ReadLocations parses a locations.toml file.
func ReadLocations(path string) (Locations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.LocationsNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeLocationsInvalid, "failed to read locations file").
			WithDetail("path", path)
	}

	var locations Locations
	if err := toml.Unmarshal(data, &locations); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLocationsInvalid, "failed to parse locations file").
			WithDetail("path", path)
	}

	for dst := range locations {
		if dst == "" {
			return nil, errors.LocationsInvalid(path, "empty destination key")
		}
	}

	return locations, nil
}

// SortedDests returns the destinations in sorted order. Entries are applied
// in this order, so parent directories are handled before their children.
func (l Locations) SortedDests() []string {
	dests := make([]string, 0, len(l))
	for dst := range l {
		dests = append(dests, dst)
	}
	sort.Strings(dests)
	return dests
}
