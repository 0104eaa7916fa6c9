package util

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/APTrust/bagit-packager/constants"
)

// StringListContains returns true if the list of strings contains item.
func StringListContains(list []string, item string) bool {
	if list != nil {
		for i := range list {
			if list[i] == item {
				return true
			}
		}
	}
	return false
}

// StringListContainsAll returns true if all items in listToCheck are
// also in masterList.
func StringListContainsAll(masterList []string, listToCheck []string) bool {
	for _, item := range listToCheck {
		if !StringListContains(masterList, item) {
			return false
		}
	}
	return true
}

// AlgorithmFromManifestName returns the algorithm used in a manifest
// or tag manifest. For example, arg "manifest-sha256.txt" returns
// "sha256", while "tagmanifest-sha512.txt" returns "sha512". This
// returns an error if the name doesn't match either format or names
// an algorithm we don't support.
func AlgorithmFromManifestName(manifestName string) (string, error) {
	name := manifestName
	switch {
	case LooksLikeManifest(name):
		name = strings.TrimPrefix(name, "manifest-")
	case LooksLikeTagManifest(name):
		name = strings.TrimPrefix(name, "tagmanifest-")
	default:
		return "", fmt.Errorf("Can't parse algorithm from filename %s", manifestName)
	}
	alg := strings.TrimSuffix(name, ".txt")
	if !StringListContains(constants.DigestAlgorithms, alg) {
		return "", fmt.Errorf("Unsupported algorithm %s in filename %s", alg, manifestName)
	}
	return alg, nil
}

// ManifestName returns the name of the payload manifest for alg.
func ManifestName(alg string) string {
	return fmt.Sprintf(constants.ManifestNameFormat, alg)
}

func LooksLikeManifest(name string) bool {
	return strings.HasPrefix(name, "manifest-") && strings.HasSuffix(name, ".txt")
}

func LooksLikeTagManifest(name string) bool {
	return strings.HasPrefix(name, "tagmanifest-") && strings.HasSuffix(name, ".txt")
}

// ContainsControlCharacter returns true if string str contains a
// Unicode control character.
func ContainsControlCharacter(str string) bool {
	runes := []rune(str)
	for _, _rune := range runes {
		if unicode.IsControl(_rune) {
			return true
		}
	}
	return false
}
