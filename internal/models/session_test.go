package models

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"Student":     RoleStudent,
		" recruiter ": RoleRecruiter,
		"RECRUITER":   RoleRecruiter,
		"Select Role": RoleUnset,
		"":            RoleUnset,
		"admin":       RoleUnset,
		"unset":       RoleUnset,
	}

	for label, want := range cases {
		if got := ParseRole(label); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestDocumentExtension(t *testing.T) {
	doc := Document{Filename: "Jane_Doe.PDF"}
	if got := doc.Extension(); got != ".pdf" {
		t.Fatalf("unexpected extension: %q", got)
	}
}
