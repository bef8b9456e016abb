package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"coursehub/membership"

	"github.com/gin-gonic/gin"
)

const selectMembershipURL = "/memberships/"

// GET /memberships/
func MembershipSelect(c *gin.Context) {
	user, _ := GetUserLogged(c)
	services := ServicesInstance(c)
	if services == nil {
		renderError(c, http.StatusInternalServerError, "serviços não configurados no contexto")
		return
	}

	list, err := services.Memberships.List()
	if err != nil {
		renderError(c, http.StatusInternalServerError, err.Error())
		return
	}

	current := "None"
	if um, err := services.Memberships.Current(user.ID); err == nil {
		current = um.TierName()
	}
	active := false
	if sub, err := services.Memberships.CurrentSubscription(user.ID); err == nil && sub != nil {
		active = sub.Active
	}

	render(c, http.StatusOK, "membership_list.html", gin.H{
		"title":                   "Memberships",
		"memberships":             list,
		"current_membership":      current,
		"has_active_subscription": active,
	})
}

// POST /memberships/
func MembershipSelectPost(c *gin.Context) {
	user, _ := GetUserLogged(c)
	services := ServicesInstance(c)
	if services == nil {
		renderError(c, http.StatusInternalServerError, "serviços não configurados no contexto")
		return
	}

	selected, err := services.Memberships.Select(requestCtx(c), user.ID, c.PostForm("membership_type"))
	var current *membership.AlreadyCurrentError
	switch {
	case errors.Is(err, membership.ErrInvalidMembership):
		flash(c, FLASH_ERROR, "Invalid membership type selected.")
		redirectBack(c, selectMembershipURL)
		return
	case errors.As(err, &current):
		next := "your next billing date"
		if current.NextBilling != nil {
			next = current.NextBilling.Format("January 2, 2006")
		}
		flash(c, FLASH_INFO, fmt.Sprintf("The selected membership is your current membership, and your next payment will be processed on %s", next))
		redirectBack(c, selectMembershipURL)
		return
	case err != nil:
		services.Logger.Error().Err(err).Int64("user_id", user.ID).Msg("select membership")
		flash(c, FLASH_ERROR, "Something went wrong, please try again.")
		redirectBack(c, selectMembershipURL)
		return
	}

	setSelectedMembershipType(c, selected.Type)
	c.Redirect(http.StatusFound, "/memberships/payment/")
}

// GET /memberships/payment/
func Payment(c *gin.Context) {
	user, _ := GetUserLogged(c)
	services := ServicesInstance(c)
	if services == nil {
		renderError(c, http.StatusInternalServerError, "serviços não configurados no contexto")
		return
	}

	if _, err := services.Memberships.Current(user.ID); err != nil {
		flash(c, FLASH_ERROR, "Please create a membership first.")
		c.Redirect(http.StatusFound, selectMembershipURL)
		return
	}
	selected, err := services.Memberships.ByType(selectedMembershipType(c))
	if err != nil {
		c.Redirect(http.StatusFound, selectMembershipURL)
		return
	}

	render(c, http.StatusOK, "membership_payment.html", gin.H{
		"title":               "Payment",
		"publishKey":          services.Config.Billing.PublishableKey,
		"selected_membership": selected,
	})
}

// POST /memberships/payment/
// Cobra e já registra a transação; não existe rota separada que ative um tier.
func PaymentPost(c *gin.Context) {
	user, _ := GetUserLogged(c)
	services := ServicesInstance(c)
	if services == nil {
		renderError(c, http.StatusInternalServerError, "serviços não configurados no contexto")
		return
	}

	if _, err := services.Memberships.Current(user.ID); err != nil {
		flash(c, FLASH_ERROR, "Please create a membership first.")
		c.Redirect(http.StatusFound, selectMembershipURL)
		return
	}

	selection := selectedMembershipType(c)
	_, err := services.Memberships.Pay(requestCtx(c), user, selection, c.PostForm("stripeToken"))
	switch {
	case errors.Is(err, membership.ErrNoSelection), errors.Is(err, membership.ErrInvalidMembership):
		c.Redirect(http.StatusFound, selectMembershipURL)
		return
	case err != nil:
		services.Logger.Warn().Err(err).Int64("user_id", user.ID).Msg("payment failed")
		flash(c, FLASH_ERROR, fmt.Sprintf("Payment processing failed: %s", err))
		c.Redirect(http.StatusFound, selectMembershipURL)
		return
	}

	selected, _ := services.Memberships.ByType(selection)
	setSelectedMembershipType(c, "")
	name := selection
	if selected != nil {
		name = selected.String()
	}
	flash(c, FLASH_INFO, fmt.Sprintf("%s membership successfully created", name))
	c.Redirect(http.StatusFound, selectMembershipURL)
}

// POST /memberships/cancel/
func CancelSubscription(c *gin.Context) {
	user, _ := GetUserLogged(c)
	services := ServicesInstance(c)
	if services == nil {
		renderError(c, http.StatusInternalServerError, "serviços não configurados no contexto")
		return
	}

	res, err := services.Memberships.Cancel(requestCtx(c), user)
	switch {
	case errors.Is(err, membership.ErrNoActiveSubscription):
		flash(c, FLASH_INFO, "You don't have an active membership")
		redirectBack(c, selectMembershipURL)
		return
	case errors.Is(err, membership.ErrFreeTierMissing):
		flash(c, FLASH_ERROR, "Free membership not found. Please contact support.")
		c.Redirect(http.StatusFound, selectMembershipURL)
		return
	case err != nil:
		services.Logger.Error().Err(err).Int64("user_id", user.ID).Msg("cancel subscription")
		flash(c, FLASH_ERROR, "Something went wrong, please try again.")
		c.Redirect(http.StatusFound, selectMembershipURL)
		return
	}

	if res.ProviderWarning != nil {
		flash(c, FLASH_WARNING, fmt.Sprintf("Billing cancellation failed: %s", res.ProviderWarning))
	}
	if res.EmailSent {
		flash(c, FLASH_INFO, "Subscription successfully cancelled. We have sent you an email notification")
	} else {
		flash(c, FLASH_INFO, "Subscription successfully cancelled.")
	}
	c.Redirect(http.StatusFound, selectMembershipURL)
}
