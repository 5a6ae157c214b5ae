package transport

import (
	"time"

	"github.com/ds124wfegd/portrait/internal/service"
)

type RenderHandler struct {
	service        service.RenderService
	requestTimeout time.Duration
}

func NewRenderHandler(service service.RenderService, requestTimeout time.Duration) *RenderHandler {
	return &RenderHandler{service: service, requestTimeout: requestTimeout}
}
