package server

import (
	"fmt"

	"blogly/internal/models"

	"github.com/gofiber/fiber/v2"
)

func tagFormData(title, action, cancel, submit, name, errMsg string) fiber.Map {
	return fiber.Map{
		"Title":  title,
		"Action": action,
		"Cancel": cancel,
		"Submit": submit,
		"Name":   name,
		"Error":  errMsg,
	}
}

func (s *Server) ListTags(c *fiber.Ctx) error {
	tags, err := s.tagService.ListTags(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("tags/list", fiber.Map{
		"Title": "Tags",
		"Tags":  tags,
	})
}

func (s *Server) NewTagForm(c *fiber.Ctx) error {
	return c.Render("tags/new", tagFormData("Create a Tag", "/tags/new", "/tags", "Add", "", ""))
}

// CreateTag adds a tag. A duplicate name re-renders the form.
func (s *Server) CreateTag(c *fiber.Ctx) error {
	name := c.FormValue("name")
	if _, err := s.tagService.CreateTag(c.UserContext(), name); err != nil {
		if models.IsConstraintViolation(err) {
			return c.Status(fiber.StatusUnprocessableEntity).Render("tags/new",
				tagFormData("Create a Tag", "/tags/new", "/tags", "Add", name, appMessage(err)))
		}
		return err
	}
	return c.Redirect("/tags")
}

// ShowTag renders the tag with every post carrying it.
func (s *Server) ShowTag(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tag, posts, err := s.tagService.GetTagWithPosts(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Render("tags/detail", fiber.Map{
		"Title": tag.Name,
		"Tag":   tag,
		"Posts": posts,
	})
}

func (s *Server) EditTagForm(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tag, err := s.tagService.GetTag(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Render("tags/edit", tagFormData("Edit "+tag.Name,
		fmt.Sprintf("/tags/%d/edit", id), fmt.Sprintf("/tags/%d", id), "Save", tag.Name, ""))
}

func (s *Server) UpdateTag(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	name := c.FormValue("name")
	if _, err := s.tagService.UpdateTag(c.UserContext(), id, name); err != nil {
		if models.IsConstraintViolation(err) {
			return c.Status(fiber.StatusUnprocessableEntity).Render("tags/edit", tagFormData("Edit Tag",
				fmt.Sprintf("/tags/%d/edit", id), fmt.Sprintf("/tags/%d", id), "Save", name, appMessage(err)))
		}
		return err
	}
	return c.Redirect("/tags")
}

// DeleteTag removes the tag; its posts stay.
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.tagService.DeleteTag(c.UserContext(), id); err != nil {
		return err
	}
	return c.Redirect("/tags")
}
