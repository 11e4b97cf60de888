package models

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RolePlayer Role = "player"
)

type Capability string

const (
	CapabilityManageFixtures Capability = "manage_fixtures"
	CapabilityRecordResults  Capability = "record_results"
	CapabilityManageBookings Capability = "manage_bookings"
	CapabilityBookCourt      Capability = "book_court"
	CapabilityJoinOpenMatch  Capability = "join_open_match"
)

// rolePermissions is the closed capability matrix. Permission checks go through
// RoleAllows rather than comparing role strings at call sites.
var rolePermissions = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapabilityManageFixtures: true,
		CapabilityRecordResults:  true,
		CapabilityManageBookings: true,
		CapabilityBookCourt:      true,
		CapabilityJoinOpenMatch:  true,
	},
	RoleStaff: {
		CapabilityManageFixtures: true,
		CapabilityRecordResults:  true,
		CapabilityManageBookings: true,
		CapabilityBookCourt:      true,
		CapabilityJoinOpenMatch:  false,
	},
	RolePlayer: {
		CapabilityManageFixtures: false,
		CapabilityRecordResults:  false,
		CapabilityManageBookings: false,
		CapabilityBookCourt:      true,
		CapabilityJoinOpenMatch:  true,
	},
}

func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

func RoleAllows(role Role, capability Capability) bool {
	caps, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return caps[capability]
}
