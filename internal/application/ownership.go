package application

// CanMutate reports whether principalID may update or delete a resource owned by ownerID.
func CanMutate(principalID, ownerID string) bool {
	return principalID == ownerID
}
