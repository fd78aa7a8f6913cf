package api

type Profile struct {
	Name   string `json:"name"`
	Driver string `json:"driver"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
