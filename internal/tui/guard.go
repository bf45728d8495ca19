package tui

import "github.com/naveenspark/liftlog/pkg/domain"

// guard renders content only for a signed-in user. It holds no state and is
// evaluated on every View call.
func guard(user *domain.User, action string, content func() string) string {
	if user == nil {
		return signInPrompt(action)
	}
	return content()
}

func signInPrompt(action string) string {
	return "\n " + selectedStyle.Render("You need to be logged in to "+action+".") + "\n\n " +
		accentStyle.Render("l") + " " + normalStyle.Render("Sign In") + "\n"
}
