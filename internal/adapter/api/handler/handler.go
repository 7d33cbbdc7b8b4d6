package handler

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/usecase"
)

var (
	authHandler     *AuthHandler
	profileHandler  *ProfileHandler
	postingHandler  *PostingHandler
	reviewHandler   *ReviewHandler
	chatHandler     *ChatHandler
	friendHandler   *FriendHandler
	locationHandler *LocationHandler
	orderHandler    *OrderHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	profileUseCase *usecase.ProfileUseCase,
	postingUseCase *usecase.PostingUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	chatUseCase *usecase.ChatUseCase,
	friendUseCase *usecase.FriendUseCase,
	locationUseCase *usecase.LocationUseCase,
	purchaseUseCase *usecase.PurchaseUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	profileHandler = NewProfileHandler(profileUseCase)
	postingHandler = NewPostingHandler(postingUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	friendHandler = NewFriendHandler(friendUseCase)
	locationHandler = NewLocationHandler(locationUseCase)
	orderHandler = NewOrderHandler(purchaseUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetProfileHandler() *ProfileHandler {
	return profileHandler
}

func GetPostingHandler() *PostingHandler {
	return postingHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetFriendHandler() *FriendHandler {
	return friendHandler
}

func GetLocationHandler() *LocationHandler {
	return locationHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func getUserIDFromContext(c echo.Context) string {
	if uid, ok := c.Get("uid").(string); ok {
		return uid
	}
	return ""
}
