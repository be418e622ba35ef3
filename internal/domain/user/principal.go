package user

// Principal is the authenticated actor. UserID scopes which matches it may read or mutate.
type Principal struct {
	UserID string
	Email  string
}
