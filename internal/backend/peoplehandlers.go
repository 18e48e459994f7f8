package backend

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/peoplesearch/internal/backend/database"
	"github.com/jo-hoe/peoplesearch/internal/core"
)

// PersonRequest is the JSON body accepted by POST and PUT /api/people.
type PersonRequest struct {
	ID        string `json:"id" validate:"max=64"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Gender    string `json:"gender" validate:"max=32"`
	Age       int    `json:"age"`
	Interests string `json:"interests" validate:"max=1024"`
	AvatarID  string `json:"avatarId" validate:"max=256"`
	Addr1     string `json:"addr1" validate:"max=256"`
	Addr2     string `json:"addr2" validate:"max=256"`
	Country   string `json:"country" validate:"max=100"`
	State     string `json:"state" validate:"max=100"`
	City      string `json:"city" validate:"max=100"`
	ZipCode   string `json:"zipCode" validate:"max=20"`
}

func (r *PersonRequest) toPerson() *database.Person {
	return &database.Person{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Gender:    r.Gender,
		Age:       r.Age,
		Interests: r.Interests,
		AvatarID:  r.AvatarID,
		Addr1:     r.Addr1,
		Addr2:     r.Addr2,
		Country:   r.Country,
		State:     r.State,
		City:      r.City,
		ZipCode:   r.ZipCode,
	}
}

// bindPerson decodes and validates the request body. A missing or null body
// yields a nil person so the core can reject it.
func bindPerson(ctx echo.Context) (*database.Person, error) {
	var req *PersonRequest
	if err := json.NewDecoder(ctx.Request().Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, core.MsgUnrecognizedJSONObject)
	}
	if req == nil {
		return nil, nil
	}
	if err := ctx.Validate(req); err != nil {
		return nil, err
	}
	return req.toPerson(), nil
}

func (s *APIService) listPeopleHandler(ctx echo.Context) error {
	people, err := s.coreService.ListPeople(ctx.Request().Context(), ctx.QueryParam("name"))
	if err != nil {
		return httpError("listPeopleHandler", err)
	}
	return ctx.JSON(http.StatusOK, people)
}

func (s *APIService) getPersonHandler(ctx echo.Context) error {
	person, err := s.coreService.GetPerson(ctx.Request().Context(), pathParam(ctx, "id"))
	if err != nil {
		return httpError("getPersonHandler", err)
	}
	return ctx.JSON(http.StatusOK, person)
}

func (s *APIService) createPersonHandler(ctx echo.Context) error {
	person, err := bindPerson(ctx)
	if err != nil {
		return err
	}
	created, err := s.coreService.CreatePerson(ctx.Request().Context(), person)
	if err != nil {
		return httpError("createPersonHandler", err)
	}
	ctx.Response().Header().Set(echo.HeaderLocation, ctx.Echo().Reverse(routeGetPersonByID, created.ID))
	return ctx.JSON(http.StatusCreated, created)
}

func (s *APIService) updatePersonHandler(ctx echo.Context) error {
	person, err := bindPerson(ctx)
	if err != nil {
		return err
	}
	if err := s.coreService.UpdatePerson(ctx.Request().Context(), pathParam(ctx, "id"), person); err != nil {
		return httpError("updatePersonHandler", err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *APIService) deletePersonHandler(ctx echo.Context) error {
	if err := s.coreService.DeletePerson(ctx.Request().Context(), pathParam(ctx, "id")); err != nil {
		return httpError("deletePersonHandler", err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
