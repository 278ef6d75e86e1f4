package dto

import (
	"fmt"
	"strings"

	"foodgram/internal/microservices/http-api/models"
)

const shoppingListHeader = "Shopping list:"

// RenderShoppingList formats the aggregated list as the plain-text download.
func RenderShoppingList(items []models.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(shoppingListHeader)
	b.WriteByte('\n')
	for _, item := range items {
		fmt.Fprintf(&b, "%s - %d, %s\n", item.Name, item.TotalAmount, item.MeasurementUnit)
	}
	return b.String()
}

func ShoppingListFilename(username string) string {
	return username + "_shopping_list.txt"
}
