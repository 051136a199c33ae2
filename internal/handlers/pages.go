package handlers

import (
	"html/template"
	"net/http"

	"github.com/abrezinsky/auctiondesk/internal/display"
	"github.com/abrezinsky/auctiondesk/internal/models"
)

func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, page *template.Template, data PageData) {
	if err := page.ExecuteTemplate(w, "layout", data); err != nil {
		h.Log.Error("Template render failed", "path", r.URL.Path, "error", err)
	}
}

func (h *Handlers) pageData(r *http.Request, title string) PageData {
	displayTitle := display.DefaultTitle
	if h.Settings != nil {
		if t, err := h.Settings.DisplayTitle(r.Context()); err == nil && t != "" {
			displayTitle = t
		}
	}
	return PageData{
		Title:        title,
		DisplayTitle: displayTitle,
		Channel:      models.ChannelName,
		SocketPath:   SocketPath,
	}
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, h.templates.Index, h.pageData(r, "Auction"))
}

func (h *Handlers) handleControllerPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, h.templates.Controller, h.pageData(r, "Auction Controller"))
}

func (h *Handlers) handleDisplayPage(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, "")
	data.Title = data.DisplayTitle
	h.renderPage(w, r, h.templates.Display, data)
}
