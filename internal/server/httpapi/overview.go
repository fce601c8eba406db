package httpapi

import "net/http"

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	overview, err := s.svc.Overview.Overview(r.Context(), id.Username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	categories := make([]map[string]any, 0, len(overview))
	for _, item := range overview {
		entries := make([]map[string]any, 0, len(item.Payments))
		for _, payment := range item.Payments {
			entries = append(entries, map[string]any{
				"id":          payment.ID,
				"categoryId":  payment.CategoryID,
				"name":        payment.Name,
				"description": payment.Description,
				"amount":      payment.Amount,
				"date":        payment.Date.UnixMilli(),
				"payer":       payment.Payer,
				"payed":       payment.Payed,
			})
		}
		category := map[string]any{
			"id":            item.Category.ID,
			"name":          item.Category.Name,
			"description":   item.Category.Description,
			"isSplit":       item.Category.IsSplit,
			"lastEdited":    item.Category.LastEdited.UnixMilli(),
			"permission":    item.Level,
			"encryptionKey": item.EncryptionKey,
			"payments":      entries,
		}
		if item.Category.IsSplit {
			shares := make([]map[string]any, 0, len(item.Splits))
			for _, split := range item.Splits {
				shares = append(shares, map[string]any{
					"categoryId":     split.CategoryID,
					"username":       split.Username,
					"share":          split.Share,
					"isPlatformUser": split.IsPlatformUser,
				})
			}
			category["splits"] = shares
		}
		categories = append(categories, category)
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": true, "categories": categories})
}
