package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONErrorCode reports a coded validation/consistency failure together
// with the offending entity snapshot (may be nil).
func JSONErrorCode(c *gin.Context, status int, code, message string, detail interface{}) {
	body := gin.H{"success": false, "error": code, "message": message}
	if detail != nil {
		body["detail"] = detail
	}
	c.JSON(status, body)
}
