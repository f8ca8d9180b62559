package api

import (
	"context"
	"encoding/json"

	"github.com/aydinemil/finance-tracker/internal/auth"
	"github.com/aydinemil/finance-tracker/internal/finance"
	"github.com/aydinemil/finance-tracker/logging"
	"github.com/0xcafe-io/iz"
)

type Api struct {
	Service *finance.Tracker
}

func NewApi(service *finance.Tracker) *Api {
	return &Api{
		Service: service,
	}
}

// --- AUTH HANDLERS --- //

func (api *Api) RegisterHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	var registerReq RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	newUser := auth.NewUser{
		FullName:      registerReq.FullName,
		Email:         registerReq.Email,
		PasswordPlain: registerReq.Password,
	}

	tokens, err := api.Service.Register(ctx, newUser)
	if err != nil {
		return respondError(r, err)
	}

	return iz.Respond().Status(201).JSON(TokenPairResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (api *Api) LoginHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	tokens, err := api.Service.Login(ctx, auth.Credentials{
		Email:         loginReq.Email,
		PasswordPlain: loginReq.Password,
	})
	if err != nil {
		return respondError(r, err)
	}

	return iz.Respond().Status(200).JSON(TokenPairResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (api *Api) RefreshHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	// The refresh token travels as a Bearer header; the JSON body is kept
	// as a fallback for clients that post it instead.
	refreshToken := bearerToken(r)
	if refreshToken == "" {
		var refreshReq RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&refreshReq); err == nil {
			refreshToken = refreshReq.RefreshToken
		}
	}
	if refreshToken == "" {
		return respondStatusError(r, 400, "Refresh token is required.")
	}

	tokens, err := api.Service.Refresh(ctx, refreshToken)
	if err != nil {
		return respondError(r, err)
	}

	return iz.Respond().Status(200).JSON(TokenPairResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (api *Api) ForgotPasswordHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	var forgotReq ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&forgotReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	message, err := api.Service.RequestPasswordReset(ctx, forgotReq.Email)
	if err != nil {
		return respondError(r, err)
	}

	return iz.Respond().Status(200).JSON(MessageResponse{Message: message})
}

func (api *Api) ResetPasswordHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	var resetReq ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&resetReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	message, err := api.Service.ResetPassword(ctx, finance.ResetPasswordRequest{
		Token:       resetReq.Token,
		OTP:         resetReq.OTP,
		NewPassword: resetReq.NewPassword,
	})
	if err != nil {
		logging.Logger.Warnf("password reset rejected: %v", err)
		return respondError(r, err)
	}

	return iz.Respond().Status(200).JSON(MessageResponse{Message: message})
}

// --- USER HANDLERS --- //

func (api *Api) GetUserHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	userID := r.PathValue("id")

	user, err := api.Service.GetUserProfile(ctx, caller.ID, userID)
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(UserToHttp(user))
}

func (api *Api) UpdateUserHandler(ctx context.Context, caller auth.Identity, r *iz.Request) iz.Responder {
	userID := r.PathValue("id")

	var updateReq UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		return respondStatusError(r, 400, "Invalid request body.")
	}

	user, err := api.Service.UpdateUserProfile(ctx, caller.ID, userID, auth.UpdateProfile{
		FullName: updateReq.FullName,
		Email:    updateReq.Email,
	})
	if err != nil {
		return respondError(r, err)
	}
	return iz.Respond().Status(200).JSON(UserToHttp(user))
}
