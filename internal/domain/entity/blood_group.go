package entity

import "strings"

// BloodGroup is one of the eight ABO/Rh types.
type BloodGroup string

const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"
)

// BloodGroups lists the canonical types in display order.
var BloodGroups = []BloodGroup{
	BloodGroupAPos, BloodGroupANeg,
	BloodGroupBPos, BloodGroupBNeg,
	BloodGroupABPos, BloodGroupABNeg,
	BloodGroupOPos, BloodGroupONeg,
}

func (b BloodGroup) Valid() bool {
	switch b {
	case BloodGroupAPos, BloodGroupANeg, BloodGroupBPos, BloodGroupBNeg,
		BloodGroupABPos, BloodGroupABNeg, BloodGroupOPos, BloodGroupONeg:
		return true
	default:
		return false
	}
}

// ParseBloodGroup accepts surrounding whitespace and lower-case letters ("ab+").
func ParseBloodGroup(s string) (BloodGroup, bool) {
	b := BloodGroup(strings.ToUpper(strings.TrimSpace(s)))
	return b, b.Valid()
}
