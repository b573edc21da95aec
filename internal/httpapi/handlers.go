package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-formtemplate/pkg/catalog"
	"github.com/goliatone/go-formtemplate/pkg/export"
	"github.com/goliatone/go-formtemplate/pkg/orchestrator"
	"github.com/goliatone/go-formtemplate/pkg/patients"
	"github.com/goliatone/go-formtemplate/pkg/query"
	"github.com/goliatone/go-formtemplate/pkg/render"
)

// PreviewRequest is the body accepted by POST /templates/:id/preview.
type PreviewRequest struct {
	Responses     map[string]any `json:"responses"`
	IncludeHidden bool           `json:"includeHidden"`
}

// PreviewResponse is returned by the preview route in json format.
type PreviewResponse struct {
	TemplateID string           `json:"templateId"`
	Sections   []render.Section `json:"sections"`
}

// Facets lists every chip the gallery and patient screens offer.
type Facets struct {
	Categories           []string        `json:"categories"`
	Specialties          []string        `json:"specialties"`
	CommunitySpecialties []string        `json:"communitySpecialties"`
	SortKeys             []query.SortKey `json:"sortKeys"`
	PatientChips         []patients.Chip `json:"patientChips"`
}

func (s *Server) listTemplates(c *fiber.Ctx) error {
	var filter query.Filter
	if err := c.QueryParser(&filter); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(query.Search(s.orch.Catalog().ListTemplates(), filter))
}

func (s *Server) getTemplate(c *fiber.Ctx) error {
	tpl, err := s.orch.Catalog().Template(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(tpl)
}

func (s *Server) templateQuestions(c *fiber.Ctx) error {
	questions, err := s.orch.Questions(c.UserContext(), orchestrator.Request{TemplateID: c.Params("id")})
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

func (s *Server) previewTemplate(c *fiber.Ctx) error {
	var body PreviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid preview body: "+err.Error())
		}
	}
	options := render.RenderOptions{Responses: body.Responses, IncludeHidden: body.IncludeHidden}
	req := orchestrator.Request{TemplateID: c.Params("id"), RenderOptions: options}

	format := strings.ToLower(strings.TrimSpace(c.Query("format", "json")))
	if format == "json" {
		tpl, err := s.orch.Resolve(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.JSON(PreviewResponse{TemplateID: tpl.ID, Sections: render.Preview(tpl, options)})
	}

	req.Renderer = format
	out, err := s.orch.Generate(c.UserContext(), req)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, out.ContentType)
	return c.Send(out.Body)
}

func (s *Server) templateSchema(c *fiber.Ctx) error {
	tpl, err := s.orch.Resolve(c.UserContext(), orchestrator.Request{TemplateID: c.Params("id")})
	if err != nil {
		return err
	}
	return c.JSON(export.ResponseSchema(tpl))
}

func (s *Server) openAPIDocument(c *fiber.Ctx) error {
	return c.JSON(export.Document(s.orch.Catalog().ListTemplates()))
}

func (s *Server) listCommunity(c *fiber.Ctx) error {
	var filter query.Filter
	if err := c.QueryParser(&filter); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	key, err := query.ParseSortKey(c.Query("sort"))
	if err != nil {
		return err
	}
	items, err := query.Browse(s.orch.Catalog().ListCommunityTemplates(), filter, key)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (s *Server) getCommunity(c *fiber.Ctx) error {
	tpl, err := s.orch.Catalog().CommunityTemplate(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(tpl)
}

func (s *Server) facets(c *fiber.Ctx) error {
	cat := s.orch.Catalog()
	return c.JSON(Facets{
		Categories:           catalog.Categories(),
		Specialties:          cat.Specialties(),
		CommunitySpecialties: cat.CommunitySpecialties(),
		SortKeys:             query.SortKeys(),
		PatientChips:         patients.Chips(),
	})
}

func (s *Server) searchPatients(c *fiber.Ctx) error {
	if s.patients == nil {
		return ErrPatientsDisabled
	}
	var q patients.Query
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if q.Cutoff == "" {
		q.Cutoff = s.cutoff
	}
	found, err := s.patients.Search(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(found)
}

func (s *Server) getPatient(c *fiber.Ctx) error {
	if s.patients == nil {
		return ErrPatientsDisabled
	}
	p, err := s.patients.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}
