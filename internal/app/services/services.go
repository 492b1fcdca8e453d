package services

// Services defined in this package:
// - AuthService: account lifecycle, authentication and password management
// - StaffService: staff self-service profile operations
// - AdminService: administrative staff management, approval and CSV import
// - DepartmentService: department lookups
