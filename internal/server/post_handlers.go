package server

import (
	"fmt"

	"blogly/internal/models"
	"blogly/internal/service"

	"github.com/gofiber/fiber/v2"
)

func readPostForm(c *fiber.Ctx) (service.PostInput, error) {
	tagIDs, err := formIDs(c, "tags")
	if err != nil {
		return service.PostInput{}, err
	}
	return service.PostInput{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
		TagIDs:  tagIDs,
	}, nil
}

func (s *Server) NewPostForm(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	user, tags, err := s.postService.NewPostForm(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.Render("posts/new", newPostData(user, tags, service.PostInput{}, ""))
}

func newPostData(user *models.User, tags []models.Tag, in service.PostInput, errMsg string) fiber.Map {
	return fiber.Map{
		"Title":   "Add Post for " + user.FullName(),
		"User":    user,
		"Tags":    tags,
		"Checked": checkedSet(in.TagIDs),
		"Form":    in,
		"Error":   errMsg,
		"Action":  fmt.Sprintf("/users/%d/posts/new", user.ID),
		"Cancel":  fmt.Sprintf("/users/%d", user.ID),
		"Submit":  "Add",
	}
}

// CreatePost adds a post for the user in the path and redirects to the user.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	in, err := readPostForm(c)
	if err != nil {
		return err
	}

	if _, err := s.postService.CreatePost(c.UserContext(), userID, in); err != nil {
		if !models.IsConstraintViolation(err) {
			return err
		}
		user, tags, formErr := s.postService.NewPostForm(c.UserContext(), userID)
		if formErr != nil {
			return formErr
		}
		return c.Status(fiber.StatusUnprocessableEntity).
			Render("posts/new", newPostData(user, tags, in, appMessage(err)))
	}
	return c.Redirect(fmt.Sprintf("/users/%d", userID))
}

// ShowPost renders the post with its author and tags.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Render("posts/detail", fiber.Map{
		"Title": post.Title,
		"Post":  post,
	})
}

func editPostData(post *models.Post, tags []models.Tag, in service.PostInput, errMsg string) fiber.Map {
	checked := checkedSet(in.TagIDs)
	for _, t := range post.Tags {
		checked[t.ID] = true
	}
	return fiber.Map{
		"Title":   "Edit " + post.Title,
		"Post":    post,
		"Tags":    tags,
		"Checked": checked,
		"Form":    in,
		"Error":   errMsg,
		"Action":  fmt.Sprintf("/posts/%d/edit", post.ID),
		"Cancel":  fmt.Sprintf("/posts/%d", post.ID),
		"Submit":  "Save",
	}
}

func (s *Server) EditPostForm(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, tags, err := s.postService.EditPostForm(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Render("posts/edit", editPostData(post, tags, service.PostInput{
		Title:   post.Title,
		Content: post.Content,
	}, ""))
}

// UpdatePost replaces title and content, adds the checked tags and redirects
// to the post.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	in, err := readPostForm(c)
	if err != nil {
		return err
	}

	if _, err := s.postService.UpdatePost(c.UserContext(), id, in); err != nil {
		if !models.IsConstraintViolation(err) {
			return err
		}
		post, tags, formErr := s.postService.EditPostForm(c.UserContext(), id)
		if formErr != nil {
			return formErr
		}
		return c.Status(fiber.StatusUnprocessableEntity).
			Render("posts/edit", editPostData(post, tags, in, appMessage(err)))
	}
	return c.Redirect(fmt.Sprintf("/posts/%d", id))
}

// DeletePost removes the post and redirects to its author.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postService.DeletePost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/users/%d", post.UserID))
}
