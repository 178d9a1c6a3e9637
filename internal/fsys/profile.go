package fsys

import (
	"fmt"
	"strings"
)

// Profile identifies a filesystem whose naming rules are known.
type Profile int

const (
	FAT32 Profile = iota + 1
	ExFAT
	NTFS
	Ext4
	HFSPlus
)

var profileNames = [...]string{
	FAT32:   "FAT32",
	ExFAT:   "exFAT",
	NTFS:    "NTFS",
	Ext4:    "ext4",
	HFSPlus: "HFS+",
}

func (p Profile) String() string {
	if p > 0 && int(p) < len(profileNames) {
		return profileNames[p]
	}
	return "Unknown"
}

// CharSet is a set of runes a filesystem disallows in a path component.
type CharSet map[rune]struct{}

// Contains reports whether r is in the set.
func (s CharSet) Contains(r rune) bool {
	_, ok := s[r]
	return ok
}

func newCharSet(chars string) CharSet {
	s := make(CharSet, len(chars))
	for _, r := range chars {
		s[r] = struct{}{}
	}
	return s
}

// Forbidden-character table. Adding a filesystem is one entry here plus a
// name in ParseProfile; nothing else changes.
var forbidden = map[Profile]CharSet{
	FAT32:   newCharSet(`<>:"/\|?*`),
	ExFAT:   newCharSet(`<>:"/\|?*`),
	NTFS:    newCharSet(`<>:"/\|?*`),
	Ext4:    newCharSet("/\x00"),
	HFSPlus: newCharSet(":"),
}

// Forbidden returns the profile's forbidden-character set. The table is
// fixed at process start and never mutated. Callers validate profiles at the
// boundary, so an unknown profile here is a programming error.
func (p Profile) Forbidden() CharSet {
	s, ok := forbidden[p]
	if !ok {
		panic(fmt.Sprintf("fsys: no rule table entry for profile %d", int(p)))
	}
	return s
}

// Profiles returns all known profiles in display order.
func Profiles() []Profile {
	return []Profile{FAT32, ExFAT, NTFS, Ext4, HFSPlus}
}

// ParseProfile maps a user-supplied filesystem name to a Profile.
func ParseProfile(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fat32":
		return FAT32, nil
	case "exfat":
		return ExFAT, nil
	case "ntfs":
		return NTFS, nil
	case "ext4":
		return Ext4, nil
	case "hfs+", "hfsplus":
		return HFSPlus, nil
	}

	known := make([]string, 0, len(profileNames))
	for _, p := range Profiles() {
		known = append(known, p.String())
	}
	return 0, fmt.Errorf("unknown filesystem %q (known: %s)", name, strings.Join(known, ", "))
}
