// Package githubhooks exposes handlers for GitHub webhook callbacks.
package githubhooks

import "github.com/gofiber/fiber/v3"

// Routes wires the GitHub webhook endpoints under /github.
func Routes(app fiber.Router, h *Hooks) {
	group := app.Group("/github")

	// POST /issuebridge/github/issues turns issue notifications into incidents.
	group.Post("/issues", h.issuesHandler)
}
