package domain

// AssignmentRule tells which category a ticket type belongs to and which role
// must handle it.
type AssignmentRule struct {
	Category TicketCategory
	Role     UserRole
}

// RuleFor returns the assignment rule of t. Every TicketType constant must have
// a case here; ok is false only for values outside the closed set.
func RuleFor(t TicketType) (rule AssignmentRule, ok bool) {
	switch t {
	case TicketTypeManagementReport:
		return AssignmentRule{Category: TicketCategoryAccounting, Role: UserRoleAccountant}, true
	case TicketTypeRegistrationAddressChange:
		return AssignmentRule{Category: TicketCategoryCorporate, Role: UserRoleCorporateSecretary}, true
	case TicketTypeStrikeOff:
		return AssignmentRule{Category: TicketCategoryManagement, Role: UserRoleDirector}, true
	}
	return AssignmentRule{}, false
}

// ParseTicketType validates a raw ticket type coming from a request.
func ParseTicketType(raw string) (TicketType, bool) {
	t := TicketType(raw)
	if _, ok := RuleFor(t); !ok {
		return "", false
	}
	return t, true
}
