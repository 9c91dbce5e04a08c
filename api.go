package folio

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/auth"
	"github.com/eringen/folio/richtext"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// writeResponse is returned by create and update: the stored post plus a
// warning when the cache purge that followed the write failed.
type writeResponse struct {
	BlogPost
	Warning string `json:"warning,omitempty"`
}

type deleteResponse struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		a.logger.Warn("login rate limited", "ip", ip)
		return c.JSON(http.StatusTooManyRequests, echo.Map{
			"success": false,
			"error":   "too many login attempts, try again later",
		})
	}
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return &ValidationError{Message: "invalid request body"}
	}
	if err := a.gate.Login(c, req.Username, req.Password); err != nil {
		if !errors.Is(err, auth.ErrUnauthorized) {
			return err
		}
		a.loginLimiter.Fail(ip)
		a.logger.Info("login rejected", "ip", ip)
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"error":   "invalid credentials",
		})
	}
	a.loginLimiter.Reset(ip)
	a.logger.Info("admin logged in", "ip", ip)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (a *App) handleLogout(c echo.Context) error {
	a.gate.Logout(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (a *App) handleCheckAuth(c echo.Context) error {
	if err := a.gate.CheckAuth(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"authenticated": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"authenticated": true})
}

func (a *App) handleListPosts(c echo.Context) error {
	var f PostFilter
	if raw := c.QueryParam("isDraft"); raw != "" {
		draft, err := strconv.ParseBool(raw)
		if err != nil {
			return &ValidationError{Message: "isDraft must be true or false"}
		}
		f.IsDraft = &draft
	}
	posts, err := a.Store.ListAllPosts(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleGetPost(c echo.Context) error {
	p, err := a.Store.GetPostAny(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (a *App) handleCreatePost(c echo.Context) error {
	ctx := c.Request().Context()
	in, err := bindPostInput(c)
	if err != nil {
		return err
	}
	p, err := a.applyInput(ctx, BlogPost{}, in)
	if err != nil {
		return err
	}
	created, err := a.Store.CreatePost(ctx, p)
	if err != nil {
		return err
	}
	a.metrics.postWrites.WithLabelValues("create").Inc()
	a.logger.Info("post created", "slug", created.Slug, "id", created.ID, "draft", created.IsDraft)
	return c.JSON(http.StatusCreated, writeResponse{BlogPost: created, Warning: a.purgeAfterWrite(ctx)})
}

func (a *App) handleUpdatePost(c echo.Context) error {
	ctx := c.Request().Context()
	existing, err := a.Store.GetPostAny(ctx, c.Param("slug"))
	if err != nil {
		return err
	}
	in, err := bindPostInput(c)
	if err != nil {
		return err
	}
	p, err := a.applyInput(ctx, existing, in)
	if err != nil {
		return err
	}
	updated, err := a.Store.UpdatePost(ctx, p)
	if err != nil {
		return err
	}
	a.metrics.postWrites.WithLabelValues("update").Inc()
	a.logger.Info("post updated", "slug", updated.Slug, "id", updated.ID, "draft", updated.IsDraft)
	return c.JSON(http.StatusOK, writeResponse{BlogPost: updated, Warning: a.purgeAfterWrite(ctx)})
}

func (a *App) handleDeletePost(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	if err := a.Store.DeletePost(ctx, slug); err != nil {
		return err
	}
	a.metrics.postWrites.WithLabelValues("delete").Inc()
	a.logger.Info("post deleted", "slug", slug)
	return c.JSON(http.StatusOK, deleteResponse{
		Message: "post deleted",
		Warning: a.purgeAfterWrite(ctx),
	})
}

func bindPostInput(c echo.Context) (PostInput, error) {
	var in PostInput
	if err := c.Bind(&in); err != nil {
		return PostInput{}, &ValidationError{Message: "invalid request body"}
	}
	return in, nil
}

// applyInput validates in and copies it onto p. A blank slug keeps the
// existing one on update and derives one from the title on create. The slug
// must not belong to any other post.
func (a *App) applyInput(ctx context.Context, p BlogPost, in PostInput) (BlogPost, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return BlogPost{}, &ValidationError{Message: "title is required"}
	}

	var slug string
	switch {
	case strings.TrimSpace(in.Slug) != "":
		slug = Slugify(in.Slug)
	case p.ID != 0:
		slug = p.Slug
	default:
		slug = Slugify(title)
	}
	if slug == "" {
		return BlogPost{}, &ValidationError{Message: "slug is required: add a title or slug with letters or digits"}
	}
	if slug != p.Slug || p.ID == 0 {
		taken, err := a.Store.SlugExists(ctx, slug, p.ID)
		if err != nil {
			return BlogPost{}, err
		}
		if taken {
			return BlogPost{}, ErrSlugInUse
		}
	}

	preview := strings.TrimSpace(in.ContentPreview)
	if preview == "" {
		preview = richtext.Preview(in.Content, previewLength)
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = a.Config.Author
	}

	p.Slug = slug
	p.Title = title
	p.Content = in.Content
	p.ContentPreview = preview
	p.MetaTitle = strings.TrimSpace(in.MetaTitle)
	p.MetaDescription = strings.TrimSpace(in.MetaDescription)
	p.Author = author
	p.Category = strings.TrimSpace(in.Category)
	p.Label = strings.TrimSpace(in.Label)
	p.IsDraft = in.IsDraft
	return p, nil
}
