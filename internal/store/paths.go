package store

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const (
	// Separator joins the parts of a credential file name
	Separator = "--"
	extension = ".json"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9]+(-[a-zA-Z0-9]+)*$`)

// FileInfo is a credential file name parsed into its identity
type FileInfo struct {
	Name  string
	Group string
	Unix  int64
	Path  string
}

// FileName builds <name>--<group>--<unix>.json
func FileName(name, group string, unix int64) string {
	return name + Separator + group + Separator + strconv.FormatInt(unix, 10) + extension
}

// ParseFileName splits a credential file name back into its identity
func ParseFileName(fileName string) (FileInfo, error) {
	base := filepath.Base(fileName)
	if !strings.HasSuffix(base, extension) {
		return FileInfo{}, fmt.Errorf("%s: not a %s file", base, extension)
	}

	parts := strings.Split(strings.TrimSuffix(base, extension), Separator)
	if len(parts) != 3 {
		return FileInfo{}, fmt.Errorf("%s: expected name%sgroup%sunix", base, Separator, Separator)
	}

	unix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return FileInfo{}, fmt.Errorf("%s: invalid timestamp: %w", base, err)
	}

	return FileInfo{
		Name:  parts[0],
		Group: parts[1],
		Unix:  unix,
		Path:  fileName,
	}, nil
}

// ValidName reports whether s can be used as a name or group in a file identity.
// Letters, digits and single dashes, so the separator can never appear inside a part.
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}
