package transport

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	BookstoreID uint   `json:"bookstore_id"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SearchBooksRequest struct {
	Query string `query:"query"`
}
