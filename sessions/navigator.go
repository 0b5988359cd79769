package sessions

import "context"

// Navigator moves the application to a destination such as the login
// page or a role landing page
type Navigator interface {
	Navigate(ctx context.Context, destination string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(ctx context.Context, destination string)

func (f NavigatorFunc) Navigate(ctx context.Context, destination string) {
	f(ctx, destination)
}

type discardNavigator struct{}

func (discardNavigator) Navigate(context.Context, string) {}
