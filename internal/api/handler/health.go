package handler

import (
	"net/http"
)

type HealthResponse struct {
	Msg string `json:"msg"`
}

func Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthResponse{
		Msg: "healthy",
	})
}
