package domain

import "github.com/google/uuid"

// ValidID indica si id es un UUID en forma canónica, el formato de todas las llaves.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
