package server

import (
	"fmt"

	"blogly/internal/models"
	"blogly/internal/service"

	"github.com/gofiber/fiber/v2"
)

func readUserForm(c *fiber.Ctx) service.UserInput {
	return service.UserInput{
		FirstName: c.FormValue("first-name"),
		LastName:  c.FormValue("last-name"),
		ImageURL:  c.FormValue("image-url"),
	}
}

func (s *Server) renderUserForm(c *fiber.Ctx, status int, view string, data fiber.Map) error {
	base := fiber.Map{
		"Title":  "Create a User",
		"Action": "/users/new",
		"Cancel": "/users",
		"Submit": "Add",
		"Form":   service.UserInput{},
	}
	for k, v := range data {
		base[k] = v
	}
	return c.Status(status).Render(view, base)
}

// ListUsers renders every user.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("users/list", fiber.Map{
		"Title": "Users",
		"Users": users,
	})
}

func (s *Server) NewUserForm(c *fiber.Ctx) error {
	return s.renderUserForm(c, fiber.StatusOK, "users/new", nil)
}

// CreateUser adds the user and redirects to its page.
func (s *Server) CreateUser(c *fiber.Ctx) error {
	in := readUserForm(c)
	user, err := s.userService.CreateUser(c.UserContext(), in)
	if err != nil {
		if models.IsConstraintViolation(err) {
			return s.renderUserForm(c, fiber.StatusUnprocessableEntity, "users/new", fiber.Map{
				"Form":  in,
				"Error": appMessage(err),
			})
		}
		return err
	}
	return c.Redirect(fmt.Sprintf("/users/%d", user.ID))
}

// ShowUser renders the user with its posts.
func (s *Server) ShowUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	user, posts, err := s.userService.GetUserWithPosts(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Render("users/detail", fiber.Map{
		"Title": user.FullName(),
		"User":  user,
		"Posts": posts,
	})
}

func (s *Server) EditUserForm(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return s.renderUserForm(c, fiber.StatusOK, "users/edit", fiber.Map{
		"Title":  "Edit " + user.FullName(),
		"Action": fmt.Sprintf("/users/%d/edit", id),
		"Cancel": fmt.Sprintf("/users/%d", id),
		"Submit": "Save",
		"Form": service.UserInput{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			ImageURL:  user.ImageURL,
		},
	})
}

// UpdateUser replaces the user's fields and redirects to the user list.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	in := readUserForm(c)
	if _, err := s.userService.UpdateUser(c.UserContext(), id, in); err != nil {
		if models.IsConstraintViolation(err) {
			return s.renderUserForm(c, fiber.StatusUnprocessableEntity, "users/edit", fiber.Map{
				"Title":  "Edit User",
				"Action": fmt.Sprintf("/users/%d/edit", id),
				"Cancel": fmt.Sprintf("/users/%d", id),
				"Submit": "Save",
				"Form":   in,
				"Error":  appMessage(err),
			})
		}
		return err
	}
	return c.Redirect("/users")
}

// DeleteUser removes the user with all of its posts.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.userService.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	return c.Redirect("/users")
}
