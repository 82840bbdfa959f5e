package domain

type ID string

func ValidateID(id string) bool {
	return len(id) == 24
}

type Event interface {
	GetName() string
	GetEntityName() string
}
