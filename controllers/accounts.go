package controllers

import (
	"errors"
	"net/http"

	dbpkg "coursehub/db"

	"github.com/gin-gonic/gin"
)

// GET /accounts/signup/
func Signup(c *gin.Context) {
	if _, ok := GetUserLogged(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "signup.html", gin.H{"title": "Sign up", "form": SignupRequest{}})
}

// POST /accounts/signup/
func SignupPost(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		flash(c, FLASH_ERROR, err.Error())
		render(c, http.StatusBadRequest, "signup.html", gin.H{"title": "Sign up", "form": req})
		return
	}

	user, err := registerUser(c, req)
	var verr validationError
	if errors.As(err, &verr) {
		flash(c, FLASH_ERROR, verr.msg)
		req.Password, req.PasswordConfirm = "", ""
		render(c, http.StatusBadRequest, "signup.html", gin.H{"title": "Sign up", "form": req})
		return
	}
	if err != nil {
		renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if err := loginSession(c, user); err != nil {
		renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	flash(c, FLASH_SUCCESS, "Welcome, "+user.Username+"!")
	c.Redirect(http.StatusFound, "/")
}

// GET /accounts/login/
func LoginPage(c *gin.Context) {
	if _, ok := GetUserLogged(c); ok {
		c.Redirect(http.StatusFound, sameHostPath(c, c.Query("next"), "/"))
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"title": "Login", "next": c.Query("next")})
}

// POST /accounts/login/ (rate limited)
func LoginPost(c *gin.Context) {
	login := c.PostForm("login")
	next := c.PostForm("next")

	db := dbpkg.DBInstance(c)
	if db == nil {
		renderError(c, http.StatusInternalServerError, "db não configurado no contexto")
		return
	}

	user, err := authenticate(db, login, c.PostForm("password"))
	if err != nil {
		msg := "Invalid username or password."
		if errors.Is(err, errUserBlocked) {
			msg = "This account is blocked."
		}
		flash(c, FLASH_ERROR, msg)
		render(c, http.StatusUnauthorized, "login.html", gin.H{"title": "Login", "next": next, "login": login})
		return
	}

	if err := loginSession(c, user); err != nil {
		renderError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusFound, sameHostPath(c, next, "/"))
}

// LoginThrottled responde ao formulário de login bloqueado pelo rate limit.
func LoginThrottled(c *gin.Context) {
	flash(c, FLASH_ERROR, "Too many login attempts. Please try again later.")
	render(c, http.StatusTooManyRequests, "login.html", gin.H{
		"title": "Login",
		"next":  c.PostForm("next"),
		"login": c.PostForm("login"),
	})
}

// POST /accounts/logout/
func Logout(c *gin.Context) {
	_ = logoutSession(c)
	c.Redirect(http.StatusFound, "/")
}
