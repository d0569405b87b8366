package staff

import "github.com/m04kA/PetCare-SchedulingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
