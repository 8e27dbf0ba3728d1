package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// callerID reads the authenticated user id the auth middleware stored on the
// context. Identity issuance itself lives outside this service.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get("userId")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing identity"})
		return primitive.NilObjectID, false
	}
	hex, _ := v.(string)
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid identity"})
		return primitive.NilObjectID, false
	}
	return id, true
}
