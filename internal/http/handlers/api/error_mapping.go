package api

import (
	"github.com/yuntuike/yanxuan/internal/http/response"
	"github.com/yuntuike/yanxuan/internal/service"

	"github.com/gin-gonic/gin"
)

var commonErrorRules = []mappedHandlerError{
	{target: service.ErrForbidden, code: response.CodeForbidden},
	{target: service.ErrUserNotFound, code: response.CodeNotFound},
	{target: service.ErrUserDisabled, code: response.CodeForbidden},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest},
	{target: service.ErrInvalidStatus, code: response.CodeConflict},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized},
	{target: service.ErrPhoneTaken, code: response.CodeConflict},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest},
	{target: service.ErrTokenInvalid, code: response.CodeUnauthorized},
}

var relationshipErrorRules = []mappedHandlerError{
	{target: service.ErrRelationshipNotFound, code: response.CodeNotFound},
	{target: service.ErrSelfRelationship, code: response.CodeBadRequest},
	{target: service.ErrDuplicateRelationship, code: response.CodeConflict},
	{target: service.ErrInvalidRelationshipType, code: response.CodeBadRequest},
	{target: service.ErrUpstreamBindingConflict, code: response.CodeConflict},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrProductNotFound, code: response.CodeNotFound},
	{target: service.ErrProductInactive, code: response.CodeBadRequest},
	{target: service.ErrInsufficientStock, code: response.CodeConflict},
	{target: service.ErrBelowMinimumOrder, code: response.CodeBadRequest},
	{target: service.ErrAboveMaximumOrder, code: response.CodeBadRequest},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest},
}

var sampleErrorRules = []mappedHandlerError{
	{target: service.ErrSampleNotFound, code: response.CodeNotFound},
	{target: service.ErrProductNotFound, code: response.CodeNotFound},
	{target: service.ErrSampleNotAllowed, code: response.CodeBadRequest},
	{target: service.ErrSampleRoleNotAllowed, code: response.CodeForbidden},
	{target: service.ErrDuplicatePendingSample, code: response.CodeConflict},
	{target: service.ErrSampleQuantityInvalid, code: response.CodeBadRequest},
	{target: service.ErrSampleNotReviewable, code: response.CodeConflict},
	{target: service.ErrReviewRatingInvalid, code: response.CodeBadRequest},
}

var collectionErrorRules = []mappedHandlerError{
	{target: service.ErrCollectionNotFound, code: response.CodeNotFound},
	{target: service.ErrCollectionNotActive, code: response.CodeConflict},
	{target: service.ErrCollectionItemNotFound, code: response.CodeNotFound},
	{target: service.ErrProductInCollection, code: response.CodeConflict},
	{target: service.ErrProductNotFound, code: response.CodeNotFound},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrOrderNotPayable, code: response.CodeConflict},
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound},
	{target: service.ErrPaymentGateway, code: response.CodeInternal},
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

func respondAuthError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(commonErrorRules, authErrorRules), response.CodeInternal, "操作失败")
}

func respondRelationshipError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(commonErrorRules, relationshipErrorRules), response.CodeInternal, "操作失败")
}

func respondProductError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(commonErrorRules, orderErrorRules), response.CodeInternal, "操作失败")
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(commonErrorRules, orderErrorRules), response.CodeInternal, "操作失败")
}

func respondSampleError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(commonErrorRules, sampleErrorRules), response.CodeInternal, "操作失败")
}

func respondCollectionError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(commonErrorRules, collectionErrorRules), response.CodeInternal, "操作失败")
}

func respondPaymentError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(commonErrorRules, paymentErrorRules), response.CodeInternal, "操作失败")
}
