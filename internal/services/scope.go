package services

import "gorm.io/gorm"

// Ownership scoping: a row is visible to an operation only when its
// author matches the requesting user (plus the parent project for
// issues). Every service read and write goes through one of these
// guards; no query may address a row outside its scope.

func scopeProjects(tx *gorm.DB, userID uint) *gorm.DB {
	return tx.Where("author_id = ?", userID)
}

func scopeProject(tx *gorm.DB, userID, projectID uint) *gorm.DB {
	return tx.Where("author_id = ? AND id = ?", userID, projectID)
}

func scopeIssues(tx *gorm.DB, userID, projectID uint) *gorm.DB {
	return tx.Where("author_id = ? AND project_id = ?", userID, projectID)
}

func scopeIssue(tx *gorm.DB, userID, projectID, issueID uint) *gorm.DB {
	return tx.Where("author_id = ? AND project_id = ? AND id = ?", userID, projectID, issueID)
}
